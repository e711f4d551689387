// Package cli is the interactive text interface: one command per line,
// fields separated by '|', results printed in the same pipe-delimited shape
// the import files use.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	warehouseapp "github.com/goncaloinunes/warehouse-manager/internal/application/warehouse"
	"github.com/goncaloinunes/warehouse-manager/internal/domain/warehouse"
)

const prompt = "> "

const helpText = `commands (fields separated by '|'):
  date                                  show the current day
  advance|<days>                        advance the date
  balance                               show available and accounting balances
  register-partner|<id>|<name>|<addr>   register a trading partner
  partner|<id>                          show a partner and drain its inbox
  partners                              list partners
  toggle|<partner>|<product>            toggle a product subscription
  register-product|<id>                 register a simple product
  register-aggregate|<id>|<alpha>|<c:q#c:q>  register an aggregate product
  product|<id>                          show a product
  products                              list products
  batches                               list every batch
  batches-product|<id>                  list a product's batches
  batches-supplier|<id>                 list a supplier's batches
  batches-under|<price>                 list batches priced strictly below
  acquisition|<partner>|<product>|<price>|<qty>
  sale|<partner>|<product>|<deadline>|<qty>
  breakdown|<partner>|<product>|<qty>
  pay|<transaction>                     settle a transaction
  transaction|<id>                      show a ledger entry
  payments|<partner>                    list a partner's settled transactions
  acquisitions|<partner>                list a partner's acquisitions
  sales|<partner>                       list a partner's sales
  import|<path>                         seed from a flat file
  open|<path>                           load a warehouse file
  save                                  save to the associated file
  saveas|<path>                         save to a new file
  quit`

// CLI drives the application service from a line-oriented command stream.
type CLI struct {
	service *warehouseapp.Service
	in      *bufio.Scanner
	out     io.Writer
	logger  *zap.Logger
}

// New creates a CLI reading commands from in and printing to out.
func New(service *warehouseapp.Service, in io.Reader, out io.Writer, logger *zap.Logger) *CLI {
	return &CLI{
		service: service,
		in:      bufio.NewScanner(in),
		out:     out,
		logger:  logger.Named("cli"),
	}
}

// Run processes commands until quit or end of input.
func (c *CLI) Run() error {
	for {
		fmt.Fprint(c.out, prompt)
		if !c.in.Scan() {
			return c.in.Err()
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			return nil
		}
		if err := c.dispatch(line); err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
	}
}

func (c *CLI) dispatch(line string) error {
	fields := strings.Split(line, "|")
	verb, args := fields[0], fields[1:]

	switch verb {
	case "help":
		fmt.Fprintln(c.out, helpText)
		return nil
	case "date":
		fmt.Fprintln(c.out, c.service.Date())
		return nil
	case "advance":
		return c.advance(args)
	case "balance":
		fmt.Fprintf(c.out, "%s|%s\n", c.service.AvailableBalance().Round(0), c.service.AccountingBalance().Round(0))
		return nil
	case "register-partner":
		return c.registerPartner(args)
	case "partner":
		return c.showPartner(args)
	case "partners":
		for _, p := range c.service.Partners() {
			fmt.Fprintln(c.out, renderPartner(p))
		}
		return nil
	case "toggle":
		return c.toggle(args)
	case "register-product":
		return c.registerProduct(args)
	case "register-aggregate":
		return c.registerAggregate(args)
	case "product":
		return c.showProduct(args)
	case "products":
		for _, p := range c.service.Products() {
			fmt.Fprintln(c.out, renderProduct(p))
		}
		return nil
	case "batches":
		c.printBatches(c.service.Batches())
		return nil
	case "batches-product":
		return c.batchesByProduct(args)
	case "batches-supplier":
		return c.batchesBySupplier(args)
	case "batches-under":
		return c.batchesUnderPrice(args)
	case "acquisition":
		return c.acquisition(args)
	case "sale":
		return c.sale(args)
	case "breakdown":
		return c.breakdown(args)
	case "pay":
		return c.pay(args)
	case "transaction":
		return c.showTransaction(args)
	case "payments":
		return c.payments(args)
	case "acquisitions":
		return c.partnerAcquisitions(args)
	case "sales":
		return c.partnerSales(args)
	case "import":
		return c.importFile(args)
	case "open":
		return c.open(args)
	case "save":
		return c.service.Save()
	case "saveas":
		return c.saveAs(args)
	default:
		return fmt.Errorf("unknown command %q, try help", verb)
	}
}

func argCount(args []string, want int) error {
	if len(args) != want {
		return fmt.Errorf("expected %d fields, got %d", want, len(args))
	}
	return nil
}

func parseInt(field string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(field))
	if err != nil {
		return 0, fmt.Errorf("bad number %q", field)
	}
	return n, nil
}

func parseDecimal(field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(field))
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad amount %q", field)
	}
	return d, nil
}

func (c *CLI) advance(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	offset, err := parseInt(args[0])
	if err != nil {
		return err
	}
	if err := c.service.AdvanceDate(offset); err != nil {
		return err
	}
	fmt.Fprintln(c.out, c.service.Date())
	return nil
}

func (c *CLI) registerPartner(args []string) error {
	if err := argCount(args, 3); err != nil {
		return err
	}
	partner, err := c.service.RegisterPartner(args[0], args[1], args[2])
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, renderPartner(partner))
	return nil
}

// showPartner prints the partner and its pending notifications, then drains
// the inbox: seen is seen.
func (c *CLI) showPartner(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	partner, err := c.service.Partner(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, renderPartner(partner))
	notifications, err := c.service.Notifications(args[0])
	if err != nil {
		return err
	}
	for _, n := range notifications {
		fmt.Fprintln(c.out, renderNotification(n))
	}
	return c.service.ClearNotifications(args[0])
}

func (c *CLI) toggle(args []string) error {
	if err := argCount(args, 2); err != nil {
		return err
	}
	return c.service.ToggleSubscription(args[0], args[1])
}

func (c *CLI) registerProduct(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	fmt.Fprintln(c.out, renderProduct(c.service.RegisterSimpleProduct(args[0])))
	return nil
}

func (c *CLI) registerAggregate(args []string) error {
	if err := argCount(args, 3); err != nil {
		return err
	}
	alpha, err := parseDecimal(args[1])
	if err != nil {
		return err
	}
	items, err := parseRecipeArg(args[2])
	if err != nil {
		return err
	}
	product, err := c.service.RegisterAggregateProduct(args[0], items, alpha)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, renderProduct(product))
	return nil
}

func parseRecipeArg(descriptor string) ([]warehouse.RecipeItem, error) {
	var items []warehouse.RecipeItem
	for _, part := range strings.Split(descriptor, "#") {
		pieces := strings.Split(part, ":")
		if len(pieces) != 2 {
			return nil, fmt.Errorf("bad recipe component %q", part)
		}
		quantity, err := parseInt(pieces[1])
		if err != nil || quantity <= 0 {
			return nil, fmt.Errorf("bad recipe quantity %q", pieces[1])
		}
		items = append(items, warehouse.RecipeItem{ProductID: pieces[0], Quantity: quantity})
	}
	return items, nil
}

func (c *CLI) showProduct(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	product, err := c.service.Product(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, renderProduct(product))
	return nil
}

func (c *CLI) printBatches(batches []warehouseapp.BatchView) {
	for _, b := range batches {
		fmt.Fprintln(c.out, renderBatch(b))
	}
}

func (c *CLI) batchesByProduct(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	batches, err := c.service.BatchesByProduct(args[0])
	if err != nil {
		return err
	}
	c.printBatches(batches)
	return nil
}

func (c *CLI) batchesBySupplier(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	batches, err := c.service.BatchesBySupplier(args[0])
	if err != nil {
		return err
	}
	c.printBatches(batches)
	return nil
}

func (c *CLI) batchesUnderPrice(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	limit, err := parseDecimal(args[0])
	if err != nil {
		return err
	}
	c.printBatches(c.service.BatchesUnderPrice(limit))
	return nil
}

func (c *CLI) acquisition(args []string) error {
	if err := argCount(args, 4); err != nil {
		return err
	}
	price, err := parseDecimal(args[2])
	if err != nil {
		return err
	}
	quantity, err := parseInt(args[3])
	if err != nil {
		return err
	}
	transaction, err := c.service.RegisterAcquisition(args[0], args[1], price, quantity)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, renderTransaction(transaction))
	return nil
}

func (c *CLI) sale(args []string) error {
	if err := argCount(args, 4); err != nil {
		return err
	}
	deadline, err := parseInt(args[2])
	if err != nil {
		return err
	}
	quantity, err := parseInt(args[3])
	if err != nil {
		return err
	}
	transaction, err := c.service.RegisterCreditSale(args[0], args[1], deadline, quantity)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, renderTransaction(transaction))
	return nil
}

func (c *CLI) breakdown(args []string) error {
	if err := argCount(args, 3); err != nil {
		return err
	}
	quantity, err := parseInt(args[2])
	if err != nil {
		return err
	}
	transaction, err := c.service.RegisterBreakdown(args[0], args[1], quantity)
	if err != nil {
		return err
	}
	if transaction.Kind == "" {
		return nil
	}
	fmt.Fprintln(c.out, renderTransaction(transaction))
	return nil
}

func (c *CLI) pay(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	id, err := parseInt(args[0])
	if err != nil {
		return err
	}
	transaction, err := c.service.Pay(id)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, renderTransaction(transaction))
	return nil
}

func (c *CLI) showTransaction(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	id, err := parseInt(args[0])
	if err != nil {
		return err
	}
	transaction, err := c.service.Transaction(id)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, renderTransaction(transaction))
	return nil
}

func (c *CLI) printTransactions(transactions []warehouseapp.TransactionView) {
	for _, t := range transactions {
		fmt.Fprintln(c.out, renderTransaction(t))
	}
}

func (c *CLI) payments(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	transactions, err := c.service.PaymentsByPartner(args[0])
	if err != nil {
		return err
	}
	c.printTransactions(transactions)
	return nil
}

func (c *CLI) partnerAcquisitions(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	transactions, err := c.service.PartnerAcquisitions(args[0])
	if err != nil {
		return err
	}
	c.printTransactions(transactions)
	return nil
}

func (c *CLI) partnerSales(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	transactions, err := c.service.PartnerSales(args[0])
	if err != nil {
		return err
	}
	c.printTransactions(transactions)
	return nil
}

func (c *CLI) importFile(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	if err := c.service.ImportFile(args[0]); err != nil {
		c.logger.Warn("import failed", zap.String("path", args[0]), zap.Error(err))
		return err
	}
	return nil
}

func (c *CLI) open(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	return c.service.Load(args[0])
}

func (c *CLI) saveAs(args []string) error {
	if err := argCount(args, 1); err != nil {
		return err
	}
	return c.service.SaveAs(args[0])
}
