// SPDX-License-Identifier: MPL-2.0

// ipmindex builds the package catalog of an ipm data repository.
package main

import cmd "github.com/HydroRoll-Team/ipm-server/cmd/ipmindex"

func main() {
	cmd.Execute()
}
