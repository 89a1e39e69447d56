package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ValentinKolb/uKV/lib/entity"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [id]",
		Short: "Prints the object with the given identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			obj, ok, err := rpcStore.Get(ctx, args[0])
			if err != nil {
				return err
			} else if !ok {
				fmt.Println("<not found>")
				return nil
			}
			return printJSON(obj)
		},
	}
	addCmd = &cobra.Command{
		Use:   "add [field=value]...",
		Short: "Adds a new object",
		Long:  "Adds a new object built from field=value pairs. Values are parsed as json if possible (e.g. size=3, done=true), otherwise they are strings.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			obj, err := parseFields(args)
			if err != nil {
				return err
			}
			id, _ := cmd.Flags().GetString("id")
			stored, err := rpcStore.Add(ctx, obj, &store.PutDirectives{ID: id})
			if err != nil {
				return err
			}
			return printJSON(stored)
		},
	}
	putCmd = &cobra.Command{
		Use:   "put [field=value]...",
		Short: "Writes an object as is",
		Long:  "Writes an object built from field=value pairs. Replacing an existing object is rejected unless the change was announced, use update for that.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			obj, err := parseFields(args)
			if err != nil {
				return err
			}
			id, err := rpcStore.Put(ctx, obj, nil)
			if err != nil {
				return err
			}
			fmt.Printf("put %s successfully\n", id)
			return nil
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [id] [field=value]...",
		Short: "Updates fields of an existing object",
		Long:  "Reads the object, announces the change, sets the given fields and writes the object back. The update can be undone.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			fields, err := parseFields(args[1:])
			if err != nil {
				return err
			}

			obj, ok, err := rpcStore.Get(ctx, args[0])
			if err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("object %s not found", args[0])
			}

			if err := rpcStore.Changing(ctx, obj); err != nil {
				return err
			}
			for k, v := range fields {
				obj[k] = v
			}
			if _, err := rpcStore.Put(ctx, obj, nil); err != nil {
				return err
			}
			return printJSON(obj)
		},
	}
	removeCmd = &cobra.Command{
		Use:   "remove [id]",
		Short: "Removes the object with the given identity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			if _, err := rpcStore.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println("removed successfully")
			return nil
		},
	}
	undoCmd = &cobra.Command{
		Use:   "undo [steps]",
		Short: "Reverts the last steps (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return replay(args, rpcStore.Undo, "undone")
		},
	}
	redoCmd = &cobra.Command{
		Use:   "redo [steps]",
		Short: "Re-applies the last undone steps (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return replay(args, rpcStore.Redo, "redone")
		},
	}
	historyCmd = &cobra.Command{
		Use:   "history",
		Short: "Prints the depth of the undo and redo history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			history, err := rpcStore.History(ctx)
			if err != nil {
				return err
			}
			return printJSON(history)
		},
	}
)

// replay runs an undo or redo with the optional steps argument
func replay(args []string, fn func(ctx context.Context, steps int) (int, error), verb string) error {
	ctx, cancel := commandContext()
	defer cancel()

	steps := 1
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("steps must be a positive number: %s", args[0])
		}
		steps = n
	}

	applied, err := fn(ctx, steps)
	if applied > 0 {
		fmt.Printf("%s %d of %d steps\n", verb, applied, steps)
	}
	return err
}

// commandContext returns a context bounded by the client timeout
func commandContext() (context.Context, context.CancelFunc) {
	timeout := viper.GetInt("timeout")
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
}

// parseFields builds an object from field=value pairs.
// Values are decoded as json if possible, otherwise they are kept as strings
func parseFields(args []string) (entity.Object, error) {
	obj := make(entity.Object, len(args))
	for _, arg := range args {
		field, raw, ok := strings.Cut(arg, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid field %q (expected field=value)", arg)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		obj[field] = value
	}
	return obj, nil
}

// printJSON prints v as indented json
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
