// main holds the entry logic for the gradekit CLI.
package main

import (
	"fmt"
	"os"

	"github.com/huangsam/gradekit/cmd"
	"github.com/huangsam/gradekit/internal/gradestore"
)

func main() {
	cmd.SetHistoryManager(gradestore.Manager)

	err := cmd.Execute()
	gradestore.CloseHistory()
	if err != nil {
		fmt.Println("❌", err)
		os.Exit(1)
	}
}
