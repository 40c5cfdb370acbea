package main

import (
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/naka-gawa/github-contributions/cmd"
)

func main() {
	cmd.Execute()
}
