package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sirdesai22/registration-dashboard/internal/models"
)

func parseID(arg string) (uuid.UUID, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid registration id %q", arg)
	}
	return id, nil
}

// fieldFlags holds one string flag per business field.
type fieldFlags map[string]*string

func registerFieldFlags(cmd *cobra.Command) fieldFlags {
	ff := fieldFlags{}
	for _, f := range models.BusinessFields() {
		ff[f.Key] = cmd.Flags().String(f.Key, "", f.Label)
	}
	return ff
}

// overlay copies every flag the user set onto in.
func (ff fieldFlags) overlay(cmd *cobra.Command, in models.RegistrationInput) models.RegistrationInput {
	for _, f := range models.BusinessFields() {
		if cmd.Flags().Changed(f.Key) {
			in = in.With(f.Key, *ff[f.Key])
		}
	}
	return in
}

func newShowCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "show <id>",
		Short:   "Show one registration",
		GroupID: "records",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			reg, err := a.dash.Get(ctx, id)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), reg)
			}
			printRegistration(cmd.OutOrStdout(), reg)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output as JSON")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Register a participant",
		GroupID: "records",
		Args:    cobra.NoArgs,
	}
	ff := registerFieldFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx, cancel := a.context(cmd)
		defer cancel()
		reg, err := a.dash.Create(ctx, ff.overlay(cmd, models.RegistrationInput{}))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", reg.ID, reg.Name)
		return nil
	}
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <id>",
		Short:   "Change fields of a registration",
		Long:    "Fetches the registration, applies the given field flags and saves the whole record.",
		GroupID: "records",
		Args:    cobra.ExactArgs(1),
	}
	ff := registerFieldFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		ctx, cancel := a.context(cmd)
		defer cancel()

		current, err := a.dash.Get(ctx, id)
		if err != nil {
			return err
		}
		reg, err := a.dash.Update(ctx, id, ff.overlay(cmd, current.Input()))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", reg.ID, reg.Name)
		return nil
	}
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a registration",
		GroupID: "records",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.dash.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		},
	}
}
