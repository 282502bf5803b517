package cli

import "time"

// Globals defines global flags available to all commands.
type Globals struct {
	DataDir   string        `help:"Directory holding the warehouse data files." default:"." type:"path"`
	Backend   string        `help:"Storage backend (${enum})." enum:"text,sqlite" default:"text"`
	LogLevel  string        `help:"Operation log level (${enum})." enum:"trace,debug,info,warn,error" default:"info"`
	LogFile   string        `help:"Operation log file, '-' for stderr (default: warehouse.log in the data directory)."`
	Telemetry bool          `help:"Show timing telemetry for operations."`
	Slow      time.Duration `help:"Highlight operations taking at least this long in the telemetry report." default:"100ms"`
	Plain     bool          `help:"Disable colors and interactive widgets."`
}

type Commands struct {
	Globals

	Run RunCmd `cmd:"" default:"1" help:"Start the interactive menu."`

	Purchase PurchaseCmd `cmd:"" help:"Book a purchase and save."`
	Sale     SaleCmd     `cmd:"" help:"Book a sale and save."`
	Send     SendCmd     `cmd:"" help:"Send a shipment and save."`

	Balance      BalanceCmd      `cmd:"" help:"Show the net balance."`
	Inventory    InventoryCmd    `cmd:"" help:"Show the items on hand."`
	Transactions TransactionsCmd `cmd:"" help:"Show every balance entry with its type."`
	History      HistoryCmd      `cmd:"" help:"Show the operation history."`
	Shipments    ShipmentsCmd    `cmd:"" help:"Show the shipment log."`

	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for inspecting the data files."`
}
