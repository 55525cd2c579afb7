package main

import "github.com/huanfeng/fdroidmeta/cmd"

func main() {
	cmd.Execute()
}
