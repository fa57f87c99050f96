package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sortbench/internal/sorts"
)

// sortsCmd lists the registered candidates
var sortsCmd = &cobra.Command{
	Use:   "sorts",
	Short: "List available candidate sorts",
	Long: `Lists the built-in candidates and any scripts named under scripts.paths
in the config. Candidates marked "broken" do not sort and exist to exercise
the failure path.`,
	Args: cobra.NoArgs,
	RunE: listSorts,
}

func listSorts(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	reg, _, err := newRegistry(ctx)
	if err != nil {
		return err
	}

	builtins := sorts.Builtins()
	t := newTable("NAME", "KIND")
	for _, name := range reg.Names() {
		kind := "script"
		if _, ok := builtins[name]; ok {
			kind = "builtin"
		}
		if sorts.Broken[name] {
			kind = "broken"
		}
		t.Row(name, kind)
	}
	fmt.Fprintln(cmd.OutOrStdout(), t.Render())
	return nil
}
