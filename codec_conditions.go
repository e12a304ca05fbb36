package ibapi

import "strconv"

// Order condition type codes (spec.md §4.G representative obligation
// (i); S6).
const (
	ConditionTypePrice         = 1
	ConditionTypeTime          = 3
	ConditionTypeMargin        = 4
	ConditionTypeExecution     = 5
	ConditionTypeVolume        = 6
	ConditionTypePercentChange = 7
)

// OrderCondition is implemented by each of the six condition kinds. The
// wire is positional and tag-dispatched on Type(); there is no shared
// virtual base in the traffic itself, only this closed set of concrete
// shapes (spec.md §9 "replace with a compile-time table"). The type tag
// and the conjunction flag are read by the list decoder before the
// type-specific fields, and written by the list encoder symmetrically.
type OrderCondition interface {
	Type() int32
	conjunction() bool
	encodeFields(w *MessageWriter)
}

// PriceCondition fires when a contract's price crosses a threshold.
type PriceCondition struct {
	ContractID    int32
	Exchange      string
	IsMore        bool
	Price         float64
	TriggerMethod int32
	Conjunction   bool // true = AND, false = OR
}

func (c PriceCondition) Type() int32       { return ConditionTypePrice }
func (c PriceCondition) conjunction() bool { return c.Conjunction }

func (c PriceCondition) encodeFields(w *MessageWriter) {
	w.PushInt(c.ContractID)
	w.PushString(c.Exchange)
	w.PushBool(c.IsMore)
	w.PushFloat64(c.Price)
	w.PushInt(c.TriggerMethod)
}

func decodePriceCondition(b *MessageBuffer, conjunction bool) (PriceCondition, error) {
	c := PriceCondition{Conjunction: conjunction}
	var err error
	if c.ContractID, err = b.NextInt(); err != nil {
		return c, err
	}
	if c.Exchange, err = b.NextString(); err != nil {
		return c, err
	}
	if c.IsMore, err = b.NextBool(); err != nil {
		return c, err
	}
	if c.Price, err = b.NextFloat64(); err != nil {
		return c, err
	}
	if c.TriggerMethod, err = b.NextInt(); err != nil {
		return c, err
	}
	return c, nil
}

// TimeCondition fires at or after (or before) a given timestamp.
type TimeCondition struct {
	IsMore      bool
	Time        string
	Conjunction bool
}

func (c TimeCondition) Type() int32       { return ConditionTypeTime }
func (c TimeCondition) conjunction() bool { return c.Conjunction }

func (c TimeCondition) encodeFields(w *MessageWriter) {
	w.PushBool(c.IsMore)
	w.PushString(c.Time)
}

func decodeTimeCondition(b *MessageBuffer, conjunction bool) (TimeCondition, error) {
	c := TimeCondition{Conjunction: conjunction}
	var err error
	if c.IsMore, err = b.NextBool(); err != nil {
		return c, err
	}
	if c.Time, err = b.NextString(); err != nil {
		return c, err
	}
	return c, nil
}

// MarginCondition fires when account margin crosses a percentage.
type MarginCondition struct {
	IsMore      bool
	Percent     int32
	Conjunction bool
}

func (c MarginCondition) Type() int32       { return ConditionTypeMargin }
func (c MarginCondition) conjunction() bool { return c.Conjunction }

func (c MarginCondition) encodeFields(w *MessageWriter) {
	w.PushBool(c.IsMore)
	w.PushInt(c.Percent)
}

func decodeMarginCondition(b *MessageBuffer, conjunction bool) (MarginCondition, error) {
	c := MarginCondition{Conjunction: conjunction}
	var err error
	if c.IsMore, err = b.NextBool(); err != nil {
		return c, err
	}
	if c.Percent, err = b.NextInt(); err != nil {
		return c, err
	}
	return c, nil
}

// ExecutionCondition fires once any execution occurs on a matching
// symbol/security-type/exchange.
type ExecutionCondition struct {
	Symbol       string
	SecurityType string
	Exchange     string
	Conjunction  bool
}

func (c ExecutionCondition) Type() int32       { return ConditionTypeExecution }
func (c ExecutionCondition) conjunction() bool { return c.Conjunction }

func (c ExecutionCondition) encodeFields(w *MessageWriter) {
	w.PushString(c.Symbol)
	w.PushString(c.SecurityType)
	w.PushString(c.Exchange)
}

func decodeExecutionCondition(b *MessageBuffer, conjunction bool) (ExecutionCondition, error) {
	c := ExecutionCondition{Conjunction: conjunction}
	var err error
	if c.Symbol, err = b.NextString(); err != nil {
		return c, err
	}
	if c.SecurityType, err = b.NextString(); err != nil {
		return c, err
	}
	if c.Exchange, err = b.NextString(); err != nil {
		return c, err
	}
	return c, nil
}

// VolumeCondition fires when a contract's traded volume crosses a
// threshold.
type VolumeCondition struct {
	ContractID  int32
	Exchange    string
	IsMore      bool
	Volume      int32
	Conjunction bool
}

func (c VolumeCondition) Type() int32       { return ConditionTypeVolume }
func (c VolumeCondition) conjunction() bool { return c.Conjunction }

func (c VolumeCondition) encodeFields(w *MessageWriter) {
	w.PushInt(c.ContractID)
	w.PushString(c.Exchange)
	w.PushBool(c.IsMore)
	w.PushInt(c.Volume)
}

func decodeVolumeCondition(b *MessageBuffer, conjunction bool) (VolumeCondition, error) {
	c := VolumeCondition{Conjunction: conjunction}
	var err error
	if c.ContractID, err = b.NextInt(); err != nil {
		return c, err
	}
	if c.Exchange, err = b.NextString(); err != nil {
		return c, err
	}
	if c.IsMore, err = b.NextBool(); err != nil {
		return c, err
	}
	if c.Volume, err = b.NextInt(); err != nil {
		return c, err
	}
	return c, nil
}

// PercentChangeCondition fires when a contract's price percent-change
// crosses a threshold.
type PercentChangeCondition struct {
	ContractID    int32
	Exchange      string
	IsMore        bool
	ChangePercent float64
	Conjunction   bool
}

func (c PercentChangeCondition) Type() int32       { return ConditionTypePercentChange }
func (c PercentChangeCondition) conjunction() bool { return c.Conjunction }

func (c PercentChangeCondition) encodeFields(w *MessageWriter) {
	w.PushInt(c.ContractID)
	w.PushString(c.Exchange)
	w.PushBool(c.IsMore)
	w.PushFloat64(c.ChangePercent)
}

func decodePercentChangeCondition(b *MessageBuffer, conjunction bool) (PercentChangeCondition, error) {
	c := PercentChangeCondition{Conjunction: conjunction}
	var err error
	if c.ContractID, err = b.NextInt(); err != nil {
		return c, err
	}
	if c.Exchange, err = b.NextString(); err != nil {
		return c, err
	}
	if c.IsMore, err = b.NextBool(); err != nil {
		return c, err
	}
	if c.ChangePercent, err = b.NextFloat64(); err != nil {
		return c, err
	}
	return c, nil
}

// decodeCondition reads one condition's type tag and conjunction flag,
// then dispatches to the matching decoder. An unrecognized type is a
// Parse error (S6: type 99 -> Parse error), not a silently-skipped
// entry, since skipping would desync every field read after it.
func decodeCondition(b *MessageBuffer, position int) (OrderCondition, error) {
	typ, err := b.NextInt()
	if err != nil {
		return nil, err
	}
	conjunction, err := b.NextBool()
	if err != nil {
		return nil, err
	}
	switch typ {
	case ConditionTypePrice:
		return decodePriceCondition(b, conjunction)
	case ConditionTypeTime:
		return decodeTimeCondition(b, conjunction)
	case ConditionTypeMargin:
		return decodeMarginCondition(b, conjunction)
	case ConditionTypeExecution:
		return decodeExecutionCondition(b, conjunction)
	case ConditionTypeVolume:
		return decodeVolumeCondition(b, conjunction)
	case ConditionTypePercentChange:
		return decodePercentChangeCondition(b, conjunction)
	default:
		return nil, &ParseError{Position: position, Field: intToField(typ), Reason: "unknown condition type"}
	}
}

// decodeConditions reads a count-prefixed list of conditions (open order
// field block (i)).
func decodeConditions(b *MessageBuffer) ([]OrderCondition, error) {
	count, err := b.NextInt()
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}
	conditions := make([]OrderCondition, 0, count)
	for i := int32(0); i < count; i++ {
		cond, err := decodeCondition(b, b.pos)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, cond)
	}
	return conditions, nil
}

// encodeCondition writes one condition: type tag, conjunction flag, then
// the type-specific fields, mirroring decodeCondition exactly.
func encodeCondition(w *MessageWriter, c OrderCondition) {
	w.PushInt(c.Type())
	w.PushBool(c.conjunction())
	c.encodeFields(w)
}

func encodeConditions(w *MessageWriter, conditions []OrderCondition) {
	w.PushInt(int32(len(conditions)))
	for _, c := range conditions {
		encodeCondition(w, c)
	}
}

func intToField(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}
