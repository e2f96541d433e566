/*
Copyright © 2025 pvelab authors
*/
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

type menuItem struct {
	label  string
	action func()
}

// runMenu presents the interactive numbered menu shown when the binary is
// invoked without a sub-command. An invalid selection exits with code 1.
func runMenu() {
	items := []menuItem{
		{"Provision enabled services", runProvision},
		{"List containers", runList},
		{"Show access URLs", func() { runURLs(false) }},
		{"Check service reachability", func() { runURLs(true) }},
		{"Show configured resources", runResources},
		{"Update containers", runUpdate},
		{"Backup containers", runBackup},
		{"Start containers", func() { runStartStop(nil, true) }},
		{"Stop containers", func() { runStartStop(nil, false) }},
	}

	color.Cyan("pvelab - Proxmox homelab provisioner")
	fmt.Println()
	for i, item := range items {
		fmt.Printf("  %d) %s\n", i+1, item.label)
	}
	fmt.Println("  q) Quit")
	fmt.Print("\nSelect an option: ")

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		color.Red("failed to read selection")
		os.Exit(1)
	}

	choice := strings.TrimSpace(input)
	if choice == "q" || choice == "Q" {
		return
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(items) {
		color.Red("invalid option: %s", choice)
		os.Exit(1)
	}
	items[n-1].action()
}
