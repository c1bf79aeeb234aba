package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"jobboard/internal/dependent"

	"github.com/spf13/cobra"
)

var districtsProvince int64

var districtsCmd = &cobra.Command{
	Use:   "districts",
	Short: "List the districts of a province",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pair := dependent.NewPair("cli", current.client.DistrictLoader(), dependent.NewOptionCache())
		snap := pair.SetParent(cmd.Context(), strconv.FormatInt(districtsProvince, 10))
		if snap.Error != nil {
			return fmt.Errorf("%s", snap.Error.Message)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "id\tname")
		for _, o := range snap.Options {
			fmt.Fprintf(tw, "%s\t%s\n", o.Value, o.Label)
		}
		return tw.Flush()
	},
}

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and print a token for JOBBOARD_TOKEN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, err := current.client.Login(cmd.Context(), loginEmail, loginPassword)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "export JOBBOARD_TOKEN=%s\n", token)
		return nil
	},
}

var receiptOut string

var receiptCmd = &cobra.Command{
	Use:   "receipt <application-id>",
	Short: "Download the PDF receipt of an application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		pdf, err := current.client.Receipt(cmd.Context(), id)
		if err != nil {
			return err
		}
		path := receiptOut
		if path == "" {
			path = fmt.Sprintf("receipt-%d.pdf", int64(id))
		}
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "saved", path)
		return nil
	},
}

func init() {
	districtsCmd.Flags().Int64Var(&districtsProvince, "province", 0, "province id")
	_ = districtsCmd.MarkFlagRequired("province")

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	_ = loginCmd.MarkFlagRequired("email")
	_ = loginCmd.MarkFlagRequired("password")

	receiptCmd.Flags().StringVarP(&receiptOut, "output", "o", "", "output file")

	rootCmd.AddCommand(districtsCmd, loginCmd, receiptCmd)
}
