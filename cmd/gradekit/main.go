// main holds the entry logic for the gradekit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/gradekit/gradekit/cmd"
	"github.com/gradekit/gradekit/internal/gradestore"
	"github.com/joho/godotenv"
)

// main wires the grade archive into the command tree and runs it.
func main() {
	// godotenv.Load is a no-op if .env doesn't exist.
	_ = godotenv.Load()

	cmd.SetStoreManager(gradestore.Manager)

	err := cmd.Execute()
	gradestore.CloseStore()
	if err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
