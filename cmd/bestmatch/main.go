// Copyright 2022 Sylvain Müller. All rights reserved.
// Mount of this source code is governed by a Apache-2.0 license that can be found
// at https://github.com/tigerwill90/bestmatch/blob/master/LICENSE.txt.

package main

import (
	"os"

	"github.com/tigerwill90/bestmatch/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
