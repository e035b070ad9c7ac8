// ====================================
// File: cmd/soltrack/main.go
// ====================================
package main

import (
	"github.com/rovshanmuradov/soltrack/internal/cli"
)

func main() {
	cli.Execute()
}
