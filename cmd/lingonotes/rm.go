package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/csheth/lingonotes/internal/notes"
)

func newRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a note by id or unique id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			ctrl := a.openSession(cmd.Context(), store, nil)

			entry, err := resolveEntry(ctrl.Snapshot(), args[0])
			if err != nil {
				return err
			}
			ctrl.Remove(entry.ID)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%s)\n", shortID(entry.ID), entry.Original)
			return nil
		},
	}
}

func resolveEntry(entries []notes.Entry, ref string) (notes.Entry, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return notes.Entry{}, fmt.Errorf("empty note id")
	}
	var matches []notes.Entry
	for _, e := range entries {
		if e.ID == ref {
			return e, nil
		}
		if strings.HasPrefix(e.ID, ref) {
			matches = append(matches, e)
		}
	}
	switch len(matches) {
	case 0:
		return notes.Entry{}, fmt.Errorf("no note with id %q", ref)
	case 1:
		return matches[0], nil
	default:
		return notes.Entry{}, fmt.Errorf("id prefix %q matches %d notes", ref, len(matches))
	}
}

func newClearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := a.openStore()
			if err != nil {
				return err
			}
			defer store.Close()
			ctrl := a.openSession(cmd.Context(), store, nil)

			out := cmd.OutOrStdout()
			n := ctrl.Len()
			if n == 0 {
				fmt.Fprintln(out, "Nothing to clear.")
				return nil
			}
			if !yes {
				fmt.Fprintf(out, "Delete all %d note(s)? (y/n) ", n)
				answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if !strings.EqualFold(strings.TrimSpace(answer), "y") {
					fmt.Fprintln(out, "Canceled.")
					return nil
				}
			}
			fmt.Fprintf(out, "Cleared %d note(s).\n", ctrl.Clear())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
