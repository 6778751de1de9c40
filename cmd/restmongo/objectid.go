package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/fields"
	"github.com/vinicius-lino-figueiredo/restmongo/adapter/idgenerator"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newObjectIDCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "objectid",
		Short: "Generate and check ObjectIds",
	}

	var count int
	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Print new ObjectIds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := idgenerator.NewIDGenerator()
			for range count {
				id, err := gen.GenerateID()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id.Hex())
			}
			return nil
		},
	}
	newCmd.Flags().IntVarP(&count, "count", "n", 1, "number of ObjectIds")

	checkCmd := &cobra.Command{
		Use:   "check <hex>",
		Short: "Validate an ObjectId and print its timestamp",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := fields.NewObjectIDField().RunValidation(args[0])
			if err != nil {
				return err
			}
			id := v.(primitive.ObjectID)
			a.logger.Debug("valid ObjectId", zap.String("hex", id.Hex()))
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", id.Hex(), id.Timestamp().UTC().Format(fields.DateTimeLayout))
			return nil
		},
	}

	cmd.AddCommand(newCmd, checkCmd)
	return cmd
}
