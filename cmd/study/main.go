package main

import "github.com/Tiag8/bible-study-sub001/cmd"

func main() {
	cmd.Execute()
}
