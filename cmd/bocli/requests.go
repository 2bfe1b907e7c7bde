package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/brightpath-it/backoffice/storage/model"
)

func requestStore(kindName string) (model.RequestStore, error) {
	kind, ok := model.KindByName(kindName)
	if !ok {
		return nil, model.ValidationError{
			Message: "unknown request kind '" + kindName + "'",
			Allowed: model.KindNames(),
		}
	}
	store := backends.RequestStoreFor(kind)
	if store == nil {
		return nil, errors.Errorf("no storage for %s requests", kind.Name)
	}
	return store, nil
}

func newRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Inspect and update requests",
	}

	var statuses string
	list := &cobra.Command{
		Use:   "list <kind>",
		Short: "List requests of a kind, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := requestStore(args[0])
			if err != nil {
				return err
			}
			parsed, err := model.ParseStatuses(store.Kind(), statuses)
			if err != nil {
				return err
			}
			list, err := store.List(model.RequestFilter{Statuses: parsed})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), list)
		},
	}
	list.Flags().StringVar(&statuses, "status", "", "comma separated list of current statuses")

	var note, actor string
	status := &cobra.Command{
		Use:   "status <kind> <request id> <status>",
		Short: "Append a status to the history of a request",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := requestStore(args[0])
			if err != nil {
				return err
			}
			s := model.Status(args[2])
			updated, err := store.AppendStatus(
				args[1], model.StatusUpdate{
					Status: &s,
					Note:   note,
				}, actor,
			)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), updated)
		},
	}
	status.Flags().StringVar(&note, "note", "", "note of the history entry")
	status.Flags().StringVar(&actor, "actor", "bocli", "recorded author of the change")

	stats := &cobra.Command{
		Use:   "stats <kind>",
		Short: "Count requests of a kind by current status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := requestStore(args[0])
			if err != nil {
				return err
			}
			counts, err := store.Stats()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), counts)
		},
	}

	cmd.AddCommand(list, status, stats)
	return cmd
}
