package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strings"

	"car-rental/pkg/utils"
)

// Prints a bcrypt hash for manual account fixes. Reads stdin when -p is not given.
func main() {
	password := flag.String("p", "", "password to hash")
	flag.Parse()

	if *password == "" {
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "no password given")
			os.Exit(1)
		}
		*password = strings.TrimRight(line, "\r\n")
	}

	hash, err := utils.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
