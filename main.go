// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/ideatopia/pwdgen/cmd/pwdgen"

func main() {
	cmd.Execute()
}
