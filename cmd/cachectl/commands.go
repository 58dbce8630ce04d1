package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/entitycache/internal/service"
	"github.com/dmitrymomot/entitycache/pkg/cache"
	"github.com/dmitrymomot/entitycache/pkg/health"
	"github.com/dmitrymomot/entitycache/pkg/policy"
	"github.com/dmitrymomot/entitycache/pkg/redis"
)

var (
	errKeyNotFound   = errors.New("key not found")
	errUnknownEntity = errors.New("unknown entity")
	errUnknownOp     = errors.New("unknown operation")
	errMissingID     = errors.New("--id is required")
)

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the cached JSON stored under key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(cmd.Context()); err != nil {
				return err
			}

			data, ok, err := a.cache.GetRaw(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", errKeyNotFound, args[0])
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}

func newDelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "del <key>...",
		Short: "Delete exact keys and print how many existed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(cmd.Context()); err != nil {
				return err
			}

			n, err := a.cache.Delete(cmd.Context(), args...)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
}

func newPurgeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <pattern>",
		Short: "Delete every key matching a glob pattern and print the count",
		Example: `  cachectl purge 'customer:list:*'
  cachectl purge '*'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.connect(cmd.Context()); err != nil {
				return err
			}

			n, err := a.cache.DeleteByPattern(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), n)
			return err
		},
	}
}

func newInvalidateCmd(a *app) *cobra.Command {
	var (
		op       string
		id       int64
		oldEmail string
		newEmail string
	)

	cmd := &cobra.Command{
		Use:   "invalidate <customer|subscription|user>",
		Short: "Purge the keys an entity write makes stale",
		Long: `Purge the keys a create, update or delete of one entity makes stale.
Use it after writing to the database behind the services' back.`,
		Example: `  cachectl invalidate customer --op update --id 5 --old-email a@x.com --new-email b@x.com
  cachectl invalidate subscription --op create`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"customer", "subscription", "user"},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := entityPolicy(a, args[0])
			if err != nil {
				return err
			}

			var set cache.InvalidationSet
			switch strings.ToLower(op) {
			case "create":
				set = p.OnCreate()
			case "update":
				if !cmd.Flags().Changed("id") {
					return errMissingID
				}
				set = p.OnUpdate(id, oldEmail, newEmail)
			case "delete":
				if !cmd.Flags().Changed("id") {
					return errMissingID
				}
				set = p.OnDelete(id, oldEmail)
			default:
				return fmt.Errorf("%w: %q", errUnknownOp, op)
			}

			if err := a.connect(cmd.Context()); err != nil {
				return err
			}

			n, err := a.cache.Invalidate(cmd.Context(), set)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "invalidated %d keys\n", n)
			return err
		},
	}

	cmd.Flags().StringVar(&op, "op", "update", "Write operation: create, update or delete")
	cmd.Flags().Int64Var(&id, "id", 0, "Entity ID (update and delete)")
	cmd.Flags().StringVar(&oldEmail, "old-email", "", "Email before the write (customer and user)")
	cmd.Flags().StringVar(&newEmail, "new-email", "", "Email after an update (customer and user)")

	return cmd
}

func entityPolicy(a *app, entity string) (*policy.Policy[int64], error) {
	switch strings.ToLower(entity) {
	case service.CustomerNamespace:
		return service.CustomerPolicy(a.cfg.Cache.CustomerTTL), nil
	case service.SubscriptionNamespace:
		return service.SubscriptionPolicy(a.cfg.Cache.SubscriptionTTL), nil
	case service.UserNamespace:
		return service.UserPolicy(a.cfg.Cache.UserTTL), nil
	}
	return nil, fmt.Errorf("%w: %q", errUnknownEntity, entity)
}

func newPingCmd(a *app) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the store is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.connect(cmd.Context()); err != nil {
				return err
			}

			resp, err := health.Run(cmd.Context(), health.Checks{
				"redis": redis.Healthcheck(a.client),
				"cache": health.FromPinger(a.cache),
			}, health.WithTimeout(timeout), health.WithLogger(a.log))

			out := cmd.OutOrStdout()
			names := slices.Sorted(maps.Keys(resp.Checks))
			for _, name := range names {
				c := resp.Checks[name]
				if c.Error != "" {
					fmt.Fprintf(out, "%-8s %-10s %-12s %s\n", name, c.Status, c.Latency, c.Error)
					continue
				}
				fmt.Fprintf(out, "%-8s %-10s %s\n", name, c.Status, c.Latency)
			}
			fmt.Fprintf(out, "status: %s\n", resp.Status)

			return err
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Timeout for all checks")

	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML, with credentials masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(a.cfg.Redacted()); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}
