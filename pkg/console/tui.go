package console

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/offerdesk/offerd/pkg/offer"
)

// ErrQuit signals a clean exit from the interactive loop.
var ErrQuit = errors.New("quit")

// Run drives the interactive console until the user quits or the context
// is cancelled.
func (c *Console) Run(ctx context.Context) error {
	if err := c.Refresh(ctx); err != nil {
		fmt.Printf("could not load offers: %v\n", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.step(ctx); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			fmt.Printf("error: %v\n", err)
		}
	}
}

func (c *Console) step(ctx context.Context) error {
	c.printOffers()

	var action string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Offers").
				Options(
					huh.NewOption("Refresh", "refresh"),
					huh.NewOption("New offer", "new"),
					huh.NewOption("Edit offer", "edit"),
					huh.NewOption("Delete offer", "delete"),
					huh.NewOption("Display limit", "limit"),
					huh.NewOption("Quit", "quit"),
				).
				Value(&action),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	switch action {
	case "refresh":
		return c.Refresh(ctx)
	case "new":
		return c.runCreateForm(ctx)
	case "edit":
		return c.runEditForm(ctx)
	case "delete":
		return c.runDeleteForm(ctx)
	case "limit":
		return c.runLimitForm(ctx)
	case "quit":
		return ErrQuit
	}
	return nil
}

func (c *Console) printOffers() {
	state := c.State()
	if len(state.Offers) == 0 {
		fmt.Println("no offers")
		return
	}
	for _, o := range state.Offers {
		fmt.Printf("  %-36s  %-24s  amount=%g  rides=%g\n", o.ID, o.Name, o.Amount, o.MaximumRides)
	}
}

func (c *Console) runCreateForm(ctx context.Context) error {
	c.EnterCreateMode()

	var name, amount, rides string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Offer name").
				Value(&name).
				Validate(func(s string) error {
					if s == "" {
						return errors.New("name is required")
					}
					return nil
				}),
			huh.NewInput().
				Title("Amount").
				Placeholder("25").
				Value(&amount),
			huh.NewInput().
				Title("Maximum rides").
				Placeholder("10").
				Value(&rides),
		),
	)
	if err := form.Run(); err != nil {
		c.LeaveCreateMode()
		return err
	}

	if !ValidDraft(name, amount, rides) {
		var proceed bool
		confirm := huh.NewConfirm().
			Title("Amount or maximum rides will be stored as zero. Save anyway?").
			Value(&proceed)
		if err := confirm.Run(); err != nil || !proceed {
			c.LeaveCreateMode()
			return err
		}
	}

	return c.Add(ctx, name, amount, rides)
}

func (c *Console) runEditForm(ctx context.Context) error {
	id, err := c.pickOffer("Edit which offer?")
	if err != nil || id == "" {
		return err
	}
	existing, ok := c.Offer(id)
	if !ok {
		return fmt.Errorf("offer %s no longer exists", id)
	}

	name := existing.Name
	amount := strconv.FormatFloat(existing.Amount, 'f', -1, 64)
	rides := strconv.FormatFloat(existing.MaximumRides, 'f', -1, 64)
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Offer name").Value(&name),
			huh.NewInput().Title("Amount").Value(&amount),
			huh.NewInput().Title("Maximum rides").Value(&rides),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if !ValidDraft(name, amount, rides) {
		var proceed bool
		confirm := huh.NewConfirm().
			Title("Name is empty or a number will be stored as zero. Save anyway?").
			Value(&proceed)
		if err := confirm.Run(); err != nil || !proceed {
			return err
		}
	}

	return c.Save(ctx, &offer.Offer{
		ID:           id,
		Name:         name,
		Amount:       offer.Coerce(amount),
		MaximumRides: offer.Coerce(rides),
	})
}

func (c *Console) runDeleteForm(ctx context.Context) error {
	id, err := c.pickOffer("Delete which offer?")
	if err != nil || id == "" {
		return err
	}
	return c.Delete(ctx, id)
}

func (c *Console) runLimitForm(ctx context.Context) error {
	options := make([]huh.Option[int], 0, len(DisplayChoices))
	for _, n := range DisplayChoices {
		label := strconv.Itoa(n)
		if n == 0 {
			label = "all"
		}
		options = append(options, huh.NewOption(label, n))
	}

	limit := c.State().DisplayLimit
	sel := huh.NewSelect[int]().
		Title("How many offers to show?").
		Options(options...).
		Value(&limit)
	if err := sel.Run(); err != nil {
		return err
	}
	return c.SetDisplayLimit(ctx, limit)
}

// pickOffer prompts for one of the listed offers. An empty id means the
// list was empty.
func (c *Console) pickOffer(title string) (string, error) {
	state := c.State()
	if len(state.Offers) == 0 {
		fmt.Println("no offers")
		return "", nil
	}

	options := make([]huh.Option[string], 0, len(state.Offers))
	for _, o := range state.Offers {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (amount=%g rides=%g)", o.Name, o.Amount, o.MaximumRides), o.ID))
	}

	var id string
	sel := huh.NewSelect[string]().
		Title(title).
		Options(options...).
		Value(&id)
	if err := sel.Run(); err != nil {
		return "", err
	}
	return id, nil
}
