package baml

import "fmt"

// startFor is the inverse of endFor.
var startFor = func() map[RecordType]RecordType {
	m := make(map[RecordType]RecordType, len(endFor))
	for start, end := range endFor {
		m[end] = start
	}
	return m
}()

// contract tracks the stream level ordering rules: DocumentStart first,
// DocumentEnd last and every scope closed by its matching end record.
type contract struct {
	started bool
	ended   bool
	open    []RecordType
}

func (c *contract) observe(t RecordType) error {
	switch {
	case c.ended:
		return fmt.Errorf("%w: %s after DocumentEnd", ErrStreamContract, t)
	case !c.started:
		if t != DocumentStart {
			return fmt.Errorf("%w: stream starts with %s", ErrStreamContract, t)
		}
		c.started = true
		c.open = append(c.open, t)
		return nil
	case t == DocumentStart:
		return fmt.Errorf("%w: second DocumentStart", ErrStreamContract)
	}

	if _, ok := endFor[t]; ok {
		c.open = append(c.open, t)
		return nil
	}
	start, ok := startFor[t]
	if !ok {
		return nil
	}
	if len(c.open) == 0 || c.open[len(c.open)-1] != start {
		return fmt.Errorf("%w: %s does not close %s", ErrStreamContract, t, c.top())
	}
	c.open = c.open[:len(c.open)-1]
	if t == DocumentEnd {
		c.ended = true
	}
	return nil
}

func (c *contract) top() RecordType {
	if len(c.open) == 0 {
		return Unknown
	}
	return c.open[len(c.open)-1]
}

func (c *contract) finish() error {
	if !c.ended {
		return fmt.Errorf("%w: stream ends inside %s", ErrStreamContract, c.top())
	}
	return nil
}

// Validate checks a decoded record list against the stream contract.
func Validate(records []Record) error {
	var c contract
	for i, rec := range records {
		if err := c.observe(rec.Type()); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	return c.finish()
}
