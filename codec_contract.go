package ibapi

// Contract identifies a tradable instrument. Only the fields the order
// and execution codecs actually read/write are modeled here — the full
// contract-details vocabulary (spec.md §1 "High-level typed wrappers...
// Only the pattern they follow is specified") is out of scope.
type Contract struct {
	ContractID    int32
	Symbol        string
	SecurityType  string
	LastTradeDate string
	Strike        float64
	Right         string
	Multiplier    string
	Exchange      string
	Currency      string
	LocalSymbol   string
	TradingClass  string

	// ComboLegsDescription is the server's flat rendering of the legs
	// ("conid|ratio,conid|ratio"); populated alongside ComboLegs.
	ComboLegsDescription string

	// ComboLegs holds the contract-level legs of a combo/BAG order (S4):
	// a variable count of legs, each naming a child contract, ratio, and
	// buy/sell action.
	ComboLegs []ComboLeg

	// DeltaNeutralContract is present only when the owning order carries
	// a delta-neutral underlying (open/completed order field block (f)).
	DeltaNeutralContract *DeltaNeutralContract
}

// ComboLeg is one contract-level leg of a combo order.
type ComboLeg struct {
	ContractID         int32
	Ratio              int32
	Action             string
	Exchange           string
	OpenClose          int32
	ShortSaleSlot      int32
	DesignatedLocation string
	ExemptCode         int32
}

// DeltaNeutralContract is the underlying hedge contract attached to a
// volatility order.
type DeltaNeutralContract struct {
	ContractID int32
	Delta      float64
	Price      float64
}

// decodeContractForOrder reads the contract block the order and
// execution decoders share: eleven positional fields, ending at trading
// class. The contract-details response reads a wider block; this is the
// order-stream layout only.
func decodeContractForOrder(b *MessageBuffer) (Contract, error) {
	var c Contract
	var err error
	if c.ContractID, err = b.NextInt(); err != nil {
		return c, err
	}
	if c.Symbol, err = b.NextString(); err != nil {
		return c, err
	}
	if c.SecurityType, err = b.NextString(); err != nil {
		return c, err
	}
	if c.LastTradeDate, err = b.NextString(); err != nil {
		return c, err
	}
	if c.Strike, err = b.NextFloat64(); err != nil {
		return c, err
	}
	if c.Right, err = b.NextString(); err != nil {
		return c, err
	}
	if c.Multiplier, err = b.NextString(); err != nil {
		return c, err
	}
	if c.Exchange, err = b.NextString(); err != nil {
		return c, err
	}
	if c.Currency, err = b.NextString(); err != nil {
		return c, err
	}
	if c.LocalSymbol, err = b.NextString(); err != nil {
		return c, err
	}
	if c.TradingClass, err = b.NextString(); err != nil {
		return c, err
	}
	return c, nil
}

func encodeContractForOrder(w *MessageWriter, c Contract) {
	w.PushInt(c.ContractID)
	w.PushString(c.Symbol)
	w.PushString(c.SecurityType)
	w.PushString(c.LastTradeDate)
	w.PushFloat64(c.Strike)
	w.PushString(c.Right)
	w.PushString(c.Multiplier)
	w.PushString(c.Exchange)
	w.PushString(c.Currency)
	w.PushString(c.LocalSymbol)
	w.PushString(c.TradingClass)
}

// decodeComboLegs reads a count-prefixed list of contract-level combo
// legs (spec.md §4.G representative obligation (b)).
func decodeComboLegs(b *MessageBuffer) ([]ComboLeg, error) {
	count, err := b.NextInt()
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}
	legs := make([]ComboLeg, 0, count)
	for i := int32(0); i < count; i++ {
		var leg ComboLeg
		if leg.ContractID, err = b.NextInt(); err != nil {
			return nil, err
		}
		if leg.Ratio, err = b.NextInt(); err != nil {
			return nil, err
		}
		if leg.Action, err = b.NextString(); err != nil {
			return nil, err
		}
		if leg.Exchange, err = b.NextString(); err != nil {
			return nil, err
		}
		if leg.OpenClose, err = b.NextInt(); err != nil {
			return nil, err
		}
		if leg.ShortSaleSlot, err = b.NextInt(); err != nil {
			return nil, err
		}
		if leg.DesignatedLocation, err = b.NextString(); err != nil {
			return nil, err
		}
		if leg.ExemptCode, err = b.NextInt(); err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

func encodeComboLegs(w *MessageWriter, legs []ComboLeg) {
	w.PushInt(int32(len(legs)))
	for _, leg := range legs {
		w.PushInt(leg.ContractID)
		w.PushInt(leg.Ratio)
		w.PushString(leg.Action)
		w.PushString(leg.Exchange)
		w.PushInt(leg.OpenClose)
		w.PushInt(leg.ShortSaleSlot)
		w.PushString(leg.DesignatedLocation)
		w.PushInt(leg.ExemptCode)
	}
}

// TagValue is a generic tag/value pair used by the count-prefixed
// smart-combo-routing-params and algo-params blocks.
type TagValue struct {
	Tag   string
	Value string
}

func decodeTagValueList(b *MessageBuffer) ([]TagValue, error) {
	count, err := b.NextInt()
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		return nil, nil
	}
	out := make([]TagValue, 0, count)
	for i := int32(0); i < count; i++ {
		tag, err := b.NextString()
		if err != nil {
			return nil, err
		}
		val, err := b.NextString()
		if err != nil {
			return nil, err
		}
		out = append(out, TagValue{Tag: tag, Value: val})
	}
	return out, nil
}

func encodeTagValueList(w *MessageWriter, tvs []TagValue) {
	w.PushInt(int32(len(tvs)))
	for _, tv := range tvs {
		w.PushString(tv.Tag)
		w.PushString(tv.Value)
	}
}
