//go:build !windows

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func clearLocaleEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{LangEnv, "LC_ALL", "LC_MESSAGES", "LANG", "LANGUAGE"} {
		t.Setenv(key, "")
	}
}

func TestCandidatesFallBackToLanguageList(t *testing.T) {
	clearLocaleEnv(t)
	t.Setenv("LANGUAGE", "de_AT: zh_CN ::en")

	assert.Equal(t, []string{"de_AT", "zh_CN", "en"}, candidates(""))
	assert.Equal(t, language.Chinese, Match(candidates("")))
}

func TestCandidatesPreferLocaleVariables(t *testing.T) {
	clearLocaleEnv(t)
	t.Setenv("LANGUAGE", "zh_CN")
	t.Setenv("LANG", "en_US.UTF-8")

	assert.Equal(t, []string{"en_US.UTF-8"}, candidates(""))
	assert.Equal(t, []string{"zh", "en_US.UTF-8"}, candidates("zh"))
}
