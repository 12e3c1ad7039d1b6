package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/urfave/cli/v3"
)

func runVersion(ctx context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer
	if cmd.Bool("short") {
		_, err := fmt.Fprintln(w, Version)
		return err
	}

	_, err := fmt.Fprintf(w, "shiori %s (%s %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return err
}
