package main

import (
	"github.com/weni-ai/commerce-concierge/cmd"
)

func main() {
	cmd.Execute()
}
