package main

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kiranshivaraju/jobtracker/internal/contacts"
	"github.com/kiranshivaraju/jobtracker/internal/query"
	"github.com/spf13/cobra"
)

func (c *cli) listCmd() *cobra.Command {
	var (
		q, sortBy, order, archived, followUp string
		statuses, priorities, workTypes      []string
		limit, offset                        int
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Flags go through the same parser as the HTTP query string.
			v := url.Values{}
			set := func(key, val string) {
				if val != "" {
					v.Set(key, val)
				}
			}
			set("q", q)
			set("sortBy", sortBy)
			set("sortOrder", order)
			set("archived", archived)
			set("followUp", followUp)
			set("status", strings.Join(statuses, ","))
			set("priority", strings.Join(priorities, ","))
			set("workType", strings.Join(workTypes, ","))
			if limit > 0 {
				v.Set("limit", strconv.Itoa(limit))
			}
			if offset > 0 {
				v.Set("offset", strconv.Itoa(offset))
			}

			opts, err := query.ParseOptions(v, time.Local)
			if err != nil {
				return err
			}

			return c.withService(cmd.Context(), func(ctx context.Context, svc *contacts.Service) error {
				res, err := svc.List(ctx, opts)
				if err != nil {
					return err
				}
				if c.v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), res)
				}
				renderContacts(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVarP(&q, "query", "q", "", "case-insensitive search text")
	f.StringSliceVar(&statuses, "status", nil, "keep only these statuses")
	f.StringSliceVar(&priorities, "priority", nil, "keep only these priorities")
	f.StringSliceVar(&workTypes, "work-type", nil, "keep only these work types")
	f.StringVar(&followUp, "follow-up", "", "true or false: filter on an upcoming follow-up")
	f.StringVar(&sortBy, "sort-by", "", "sort field, one of: "+strings.Join(query.SortFields(), ", "))
	f.StringVar(&order, "order", "", "asc or desc")
	f.IntVar(&limit, "limit", 0, "page size (0 for all)")
	f.IntVar(&offset, "offset", 0, "matches to skip")
	f.StringVar(&archived, "archived", "", "exclude (default), include or only")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one contact with its interviews, interactions and attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd.Context(), func(ctx context.Context, svc *contacts.Service) error {
				ct, err := svc.Get(ctx, args[0])
				if err != nil {
					return fmt.Errorf("contact %s: %w", args[0], err)
				}
				if c.v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), ct)
				}
				renderContact(cmd.OutOrStdout(), ct)
				return nil
			})
		},
	}
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd.Context(), func(ctx context.Context, svc *contacts.Service) error {
				s, err := svc.Analytics(ctx)
				if err != nil {
					return err
				}
				if c.v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), s)
				}
				renderSummary(cmd.OutOrStdout(), s)
				return nil
			})
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole document to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("--format must be json or yaml, got %q", format)
			}
			return c.withService(cmd.Context(), func(ctx context.Context, svc *contacts.Service) error {
				doc, err := svc.Document(ctx)
				if err != nil {
					return err
				}
				if format == "yaml" {
					return printYAML(cmd.OutOrStdout(), doc)
				}
				return printJSON(cmd.OutOrStdout(), doc)
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	return cmd
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Rewrite the stored document in the current format",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd.Context(), func(ctx context.Context, svc *contacts.Service) error {
				n, err := svc.Rewrite(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "rewrote %d contacts\n", n)
				return nil
			})
		},
	}
}

func (c *cli) archiveCmd() *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive a contact, or restore it with --undo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd.Context(), func(ctx context.Context, svc *contacts.Service) error {
				fn := svc.Archive
				if undo {
					fn = svc.Unarchive
				}
				ct, err := fn(ctx, args[0])
				if err != nil {
					return fmt.Errorf("contact %s: %w", args[0], err)
				}
				if c.v.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), ct)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s (archived=%t)\n", ct.ID, ct.CompanyName, ct.Archived)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "unarchive instead")
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact and everything attached to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withService(cmd.Context(), func(ctx context.Context, svc *contacts.Service) error {
				ok, err := svc.Delete(ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("contact %s: %w", args[0], contacts.ErrNotFound)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}
