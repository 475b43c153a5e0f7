package cli

import (
	"time"

	"github.com/Rhymond/go-money"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/savemoney-app/savemoney/internal/finance"
)

const defaultCurrency = "BRL"

// formatAmount renders a decimal amount in its currency for display only;
// stored values stay exact decimals.
func formatAmount(v decimal.Decimal, code string) string {
	if code == "" {
		code = defaultCurrency
	}
	return money.NewFromFloat(v.InexactFloat64(), code).Display()
}

// recordFlags are the fields shared by all three entity types.
type recordFlags struct {
	desc      string
	value     string
	currency  string
	date      string
	recurring bool
}

func (r *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&r.desc, "desc", "", "description")
	cmd.Flags().StringVar(&r.value, "value", "", "amount, e.g. 1234.56")
	cmd.Flags().StringVar(&r.currency, "currency", defaultCurrency, "ISO-4217 currency code")
	cmd.Flags().StringVar(&r.date, "date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&r.recurring, "recurring", false, "repeats every month")
	_ = cmd.MarkFlagRequired("desc")
	_ = cmd.MarkFlagRequired("value")
}

func (r *recordFlags) parse() (decimal.Decimal, time.Time, error) {
	v, err := decimal.NewFromString(r.value)
	if err != nil {
		return decimal.Zero, time.Time{}, err
	}
	d := time.Now()
	if r.date != "" {
		d, err = time.Parse("2006-01-02", r.date)
		if err != nil {
			return decimal.Zero, time.Time{}, err
		}
	}
	return v, d, nil
}

func incomeCmd(f *appFactory) *cobra.Command {
	cmd := &cobra.Command{Use: "income", Short: "Manage incomes"}

	var flags recordFlags
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an income",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			v, d, err := flags.parse()
			if err != nil {
				return err
			}
			item := finance.Income{
				ID:         uuid.NewString(),
				Descricao:  flags.desc,
				Valor:      v,
				Moeda:      flags.currency,
				Data:       d,
				Recorrente: flags.recurring,
			}
			if err := app.Incomes.Save(cmd.Context(), item); err != nil {
				return err
			}
			color.Green("Income saved (%s)", item.ID)
			return nil
		},
	}
	flags.register(add)

	list := &cobra.Command{
		Use:   "list",
		Short: "List incomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			items, err := app.Incomes.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, it := range items {
				marker := " "
				if it.Recorrente {
					marker = "R"
				}
				cmd.Printf("%s  %s  %-30s %s\n", it.ID, marker, it.Descricao, formatAmount(it.Valor, it.Moeda))
			}
			cmd.Printf("Recurring total: %s\n", formatAmount(finance.RecurringTotal(items), defaultCurrency))
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an income",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			return app.Incomes.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}

func expenseCmd(f *appFactory) *cobra.Command {
	cmd := &cobra.Command{Use: "expense", Short: "Manage expenses"}

	var flags recordFlags
	var pago bool
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an expense",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			v, d, err := flags.parse()
			if err != nil {
				return err
			}
			item := finance.Expense{
				ID:         uuid.NewString(),
				Descricao:  flags.desc,
				Valor:      v,
				Moeda:      flags.currency,
				Data:       d,
				Recorrente: flags.recurring,
				Pago:       pago,
			}
			if err := app.Expenses.Save(cmd.Context(), item); err != nil {
				return err
			}
			color.Green("Expense saved (%s)", item.ID)
			return nil
		},
	}
	flags.register(add)
	add.Flags().BoolVar(&pago, "paid", false, "already settled")

	list := &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			items, err := app.Expenses.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, it := range items {
				marker := " "
				if it.Recorrente {
					marker = "R"
				}
				cmd.Printf("%s  %s  %-30s %s\n", it.ID, marker, it.Descricao, formatAmount(it.Valor, it.Moeda))
			}
			cmd.Printf("Recurring total: %s\n", formatAmount(finance.RecurringTotal(items), defaultCurrency))
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			return app.Expenses.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}

func investmentCmd(f *appFactory) *cobra.Command {
	cmd := &cobra.Command{Use: "investment", Short: "Manage investments"}

	var flags recordFlags
	var tipo, rendimento string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an investment",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			v, d, err := flags.parse()
			if err != nil {
				return err
			}
			yield := decimal.Zero
			if rendimento != "" {
				yield, err = decimal.NewFromString(rendimento)
				if err != nil {
					return err
				}
			}
			item := finance.Investment{
				ID:         uuid.NewString(),
				Descricao:  flags.desc,
				Tipo:       tipo,
				Valor:      v,
				Moeda:      flags.currency,
				Data:       d,
				Rendimento: yield,
			}
			if err := app.Investments.Save(cmd.Context(), item); err != nil {
				return err
			}
			color.Green("Investment saved (%s)", item.ID)
			return nil
		},
	}
	flags.register(add)
	add.Flags().StringVar(&tipo, "type", "", "investment type")
	add.Flags().StringVar(&rendimento, "yield", "", "expected yield, percent per year")

	list := &cobra.Command{
		Use:   "list",
		Short: "List investments",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			items, err := app.Investments.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, it := range items {
				cmd.Printf("%s  %-30s %s  %s%%\n", it.ID, it.Descricao, formatAmount(it.Valor, it.Moeda), it.Rendimento)
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove an investment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := f.get(cmd.Context())
			if err != nil {
				return err
			}
			return app.Investments.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(add, list, rm)
	return cmd
}
