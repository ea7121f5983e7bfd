package main

import "fmt"

type versionCmd struct{ r *root }

func (v *versionCmd) Run() error {
	fmt.Fprintf(stdout, "%s version %s\n", v.r.program, version)
	if commit != "" {
		fmt.Fprintf(stdout, "commit %s built %s\n", commit, date)
	}
	return nil
}
