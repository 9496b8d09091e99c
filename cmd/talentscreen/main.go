// TalentScreen evaluation service entry point.
package main

import "github.com/turtacn/TalentScreen/internal/interfaces/cli"

func main() {
	cli.Execute()
}
