package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"story_assembler/config"
	"story_assembler/store"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Browse and manage saved stories",
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's stories, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		user, _ := cmd.Flags().GetString("user")
		return withLibrary(cmd.Context(), func(lib *store.Store) error {
			list, err := lib.ListByUser(cmd.Context(), user)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTYLE\tCREATED")
			for _, s := range list {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Title, s.Style, s.CreatedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		})
	},
}

var libraryShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a saved story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		html, _ := cmd.Flags().GetBool("html")
		return withLibrary(cmd.Context(), func(lib *store.Store) error {
			s, err := lib.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if html {
				fmt.Fprintln(cmd.OutOrStdout(), s.HTML)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), s.Markdown)
			return nil
		})
	},
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a saved story",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLibrary(cmd.Context(), func(lib *store.Store) error {
			return lib.Delete(cmd.Context(), args[0])
		})
	},
}

// withLibrary opens the configured store; the service is not needed here.
func withLibrary(ctx context.Context, fn func(*store.Store) error) error {
	cfg, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	lib, err := store.Open(ctx, cfg.Store.DSN)
	if err != nil {
		return err
	}
	defer lib.Close()
	return fn(lib)
}

func init() {
	libraryListCmd.Flags().String("user", "", "user id")
	_ = libraryListCmd.MarkFlagRequired("user")
	libraryShowCmd.Flags().Bool("html", false, "print the rendered HTML instead of markdown")

	libraryCmd.PersistentFlags().String("dsn", "", "sqlite database path (overrides store.dsn)")
	if err := v.BindPFlag("store.dsn", libraryCmd.PersistentFlags().Lookup("dsn")); err != nil {
		panic(err)
	}

	libraryCmd.AddCommand(libraryListCmd, libraryShowCmd, libraryDeleteCmd)
	rootCmd.AddCommand(libraryCmd)
}
