package navigation

// Controller pairs a dataset shape with the current state. It is not safe for
// concurrent use; each view session owns its own Controller.
type Controller struct {
	shape Shape
	state State
}

func NewController(shape Shape) (*Controller, error) {
	s, err := Start(shape)
	if err != nil {
		return nil, err
	}
	return &Controller{shape: shape, state: s}, nil
}

func (c *Controller) State() State { return c.state }

// Dispatch runs a through the reducer and keeps the result.
func (c *Controller) Dispatch(a Action) error {
	next, err := Reduce(c.shape, c.state, a)
	if err != nil {
		return err
	}
	c.state = next
	return nil
}

func (c *Controller) SelectPrayer(i int) error  { return c.Dispatch(SelectPrayer(i)) }
func (c *Controller) SelectVersion(j int) error { return c.Dispatch(SelectVersion(j)) }

// The wraparound transitions cannot fail on a non-empty shape.
func (c *Controller) NextPrayer()      { _ = c.Dispatch(NextPrayer()) }
func (c *Controller) PreviousPrayer()  { _ = c.Dispatch(PreviousPrayer()) }
func (c *Controller) NextVersion()     { _ = c.Dispatch(NextVersion()) }
func (c *Controller) PreviousVersion() { _ = c.Dispatch(PreviousVersion()) }
func (c *Controller) ShowOverview()    { _ = c.Dispatch(ShowOverview()) }
