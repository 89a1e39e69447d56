package kv

import (
	"github.com/ValentinKolb/uKV/cmd/util"
	"github.com/ValentinKolb/uKV/rpc/client"
	"github.com/spf13/cobra"
)

var (
	rpcStore *client.UndoStore

	// KeyValueCommands represents the KV command group
	KeyValueCommands = &cobra.Command{
		Use:               "kv",
		Short:             "Perform object store and undo operations",
		PersistentPreRunE: setupKVClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add common RPC flags to the KV command
	util.SetupRPCClientFlags(KeyValueCommands)

	KeyValueCommands.PersistentFlags().Int("shard", 100, util.WrapString("ID of the shard to connect to"))

	// Add subcommands
	KeyValueCommands.AddCommand(getCmd)
	KeyValueCommands.AddCommand(addCmd)
	KeyValueCommands.AddCommand(putCmd)
	KeyValueCommands.AddCommand(updateCmd)
	KeyValueCommands.AddCommand(removeCmd)
	KeyValueCommands.AddCommand(undoCmd)
	KeyValueCommands.AddCommand(redoCmd)
	KeyValueCommands.AddCommand(historyCmd)

	addCmd.Flags().String("id", "", util.WrapString("Explicit identity of the new object (default: read from the id field or assigned by the store)"))
}

// setupKVClient initializes the RPC store client
func setupKVClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Get client configuration components
	config := util.GetClientConfig()
	shardId := util.GetShardID()

	// Get serializer and transport
	s, err := util.GetSerializer()
	if err != nil {
		return err
	}

	t, err := util.GetClientTransport()
	if err != nil {
		return err
	}

	// Create the store client
	rpcStore, err = client.NewRPCStore(
		shardId,
		*config,
		t,
		s,
	)

	return err
}
