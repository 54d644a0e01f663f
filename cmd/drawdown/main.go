/*
Copyright © 2019 the Drawdown Solutions authors.
This file is part of Drawdown Solutions.

Drawdown Solutions is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Drawdown Solutions is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Drawdown Solutions.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command drawdown is a command-line interface for the Drawdown solution
// adoption model.
package main

import (
	"fmt"
	"os"

	"github.com/ProjectDrawdown/solutions-sub003/drawdownutil"
)

func main() {
	if err := drawdownutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
