package ibapi

// Execution is one fill record (spec.md §4.G "Execution data").
type Execution struct {
	OrderID      int32
	ExecID       string
	Time         string
	Account      string
	Exchange     string
	Side         string
	Shares       float64
	Price        float64
	PermID       int32
	ClientID     int32
	Liquidation  int32
	CumQty       float64
	AvgPrice     float64
	OrderRef     string
	EVRule       string
	EVMultiplier *float64

	ModelCode            string // gated ModelsSupport
	LastLiquidity        int32  // gated LastLiquidity
	PendingPriceRevision bool   // gated PendingPriceRevision
	Submitter            string // gated Submitter
}

// ExecutionData is the decoded ExecutionData response: a request id, the
// contract, and the execution block plus its version-gated extensions
// (spec.md §4.G "Execution data").
type ExecutionData struct {
	RequestID int32
	Contract  Contract
	Execution Execution
}

// decodeExecutionData decodes an ExecutionData response. It skips the
// leading message-version field when server_version < LastLiquidity,
// matching the real wire's historical version field that was dropped
// once LAST_LIQUIDITY shipped.
func decodeExecutionData(serverVersion int32, fields []string) (ExecutionData, error) {
	b := NewMessageBuffer(fields[1:])
	var d ExecutionData
	var err error

	if serverVersion < LastLiquidity {
		b.Skip() // legacy message version field
	}
	if d.RequestID, err = b.NextInt(); err != nil {
		return d, err
	}
	e := &d.Execution
	if e.OrderID, err = b.NextInt(); err != nil {
		return d, err
	}
	if d.Contract, err = decodeContractForOrder(b); err != nil {
		return d, err
	}
	if e.ExecID, err = b.NextString(); err != nil {
		return d, err
	}
	if e.Time, err = b.NextString(); err != nil {
		return d, err
	}
	if e.Account, err = b.NextString(); err != nil {
		return d, err
	}
	if e.Exchange, err = b.NextString(); err != nil {
		return d, err
	}
	if e.Side, err = b.NextString(); err != nil {
		return d, err
	}
	if e.Shares, err = b.NextFloat64(); err != nil {
		return d, err
	}
	if e.Price, err = b.NextFloat64(); err != nil {
		return d, err
	}
	if e.PermID, err = b.NextInt(); err != nil {
		return d, err
	}
	if e.ClientID, err = b.NextInt(); err != nil {
		return d, err
	}
	if e.Liquidation, err = b.NextInt(); err != nil {
		return d, err
	}
	if e.CumQty, err = b.NextFloat64(); err != nil {
		return d, err
	}
	if e.AvgPrice, err = b.NextFloat64(); err != nil {
		return d, err
	}
	if e.OrderRef, err = b.NextString(); err != nil {
		return d, err
	}
	if e.EVRule, err = b.NextString(); err != nil {
		return d, err
	}
	if e.EVMultiplier, err = b.NextOptionalFloat64(); err != nil {
		return d, err
	}
	if serverVersion >= ModelsSupport {
		if e.ModelCode, err = b.NextString(); err != nil {
			return d, err
		}
	}
	if serverVersion >= LastLiquidity {
		if e.LastLiquidity, err = b.NextInt(); err != nil {
			return d, err
		}
	}
	if serverVersion >= PendingPriceRevision {
		if e.PendingPriceRevision, err = b.NextBool(); err != nil {
			return d, err
		}
	}
	if serverVersion >= Submitter {
		if e.Submitter, err = b.NextString(); err != nil {
			return d, err
		}
	}

	return d, nil
}

func encodeExecutionDataRecord(serverVersion int32, d ExecutionData) []string {
	w := NewMessageWriter()
	w.PushInt(KindExecutionData)
	if serverVersion < LastLiquidity {
		w.PushString("1")
	}
	w.PushInt(d.RequestID)

	e := d.Execution
	w.PushInt(e.OrderID)
	encodeContractForOrder(w, d.Contract)
	w.PushString(e.ExecID)
	w.PushString(e.Time)
	w.PushString(e.Account)
	w.PushString(e.Exchange)
	w.PushString(e.Side)
	w.PushFloat64(e.Shares)
	w.PushFloat64(e.Price)
	w.PushInt(e.PermID)
	w.PushInt(e.ClientID)
	w.PushInt(e.Liquidation)
	w.PushFloat64(e.CumQty)
	w.PushFloat64(e.AvgPrice)
	w.PushString(e.OrderRef)
	w.PushString(e.EVRule)
	w.PushOptionalFloat64(e.EVMultiplier)
	if serverVersion >= ModelsSupport {
		w.PushString(e.ModelCode)
	}
	if serverVersion >= LastLiquidity {
		w.PushInt(e.LastLiquidity)
	}
	if serverVersion >= PendingPriceRevision {
		w.PushBool(e.PendingPriceRevision)
	}
	if serverVersion >= Submitter {
		w.PushString(e.Submitter)
	}
	return w.Fields()
}

// CommissionReport follows an ExecutionData for the same exec id.
type CommissionReport struct {
	ExecID              string
	Commission          float64
	Currency            string
	RealizedPNL         *float64
	Yield               *float64
	YieldRedemptionDate string
}

func decodeCommissionReport(fields []string) (CommissionReport, error) {
	b := NewMessageBuffer(fields[1:])
	b.Skip() // message version
	var r CommissionReport
	var err error
	if r.ExecID, err = b.NextString(); err != nil {
		return r, err
	}
	if r.Commission, err = b.NextFloat64(); err != nil {
		return r, err
	}
	if r.Currency, err = b.NextString(); err != nil {
		return r, err
	}
	if r.RealizedPNL, err = b.NextOptionalFloat64(); err != nil {
		return r, err
	}
	if r.Yield, err = b.NextOptionalFloat64(); err != nil {
		return r, err
	}
	if r.YieldRedemptionDate, err = b.NextString(); err != nil {
		return r, err
	}
	return r, nil
}

// OrderStatus reports an order's current lifecycle state (spec.md §4.G
// "Order status").
type OrderStatus struct {
	OrderID        int32
	Status         string
	Filled         float64
	Remaining      float64
	AvgFillPrice   float64
	PermID         int32
	ParentID       int32
	LastFillPrice  float64
	ClientID       int32
	WhyHeld        string
	MarketCapPrice float64 // gated MarketCapPrice
}

// decodeOrderStatus decodes an OrderStatus response, skipping the
// legacy message-version field only below MarketCapPrice (spec.md §4.G
// "Order status").
func decodeOrderStatus(serverVersion int32, fields []string) (OrderStatus, error) {
	b := NewMessageBuffer(fields[1:])
	var s OrderStatus
	var err error

	if serverVersion < MarketCapPrice {
		b.Skip()
	}
	if s.OrderID, err = b.NextInt(); err != nil {
		return s, err
	}
	if s.Status, err = b.NextString(); err != nil {
		return s, err
	}
	if s.Filled, err = b.NextFloat64(); err != nil {
		return s, err
	}
	if s.Remaining, err = b.NextFloat64(); err != nil {
		return s, err
	}
	if s.AvgFillPrice, err = b.NextFloat64(); err != nil {
		return s, err
	}
	if s.PermID, err = b.NextInt(); err != nil {
		return s, err
	}
	if s.ParentID, err = b.NextInt(); err != nil {
		return s, err
	}
	if s.LastFillPrice, err = b.NextFloat64(); err != nil {
		return s, err
	}
	if s.ClientID, err = b.NextInt(); err != nil {
		return s, err
	}
	if s.WhyHeld, err = b.NextString(); err != nil {
		return s, err
	}
	if serverVersion >= MarketCapPrice {
		if s.MarketCapPrice, err = b.NextFloat64(); err != nil {
			return s, err
		}
	}
	return s, nil
}

func encodeOrderStatusRecord(serverVersion int32, s OrderStatus) []string {
	w := NewMessageWriter()
	w.PushInt(KindOrderStatus)
	if serverVersion < MarketCapPrice {
		w.PushString("1")
	}
	w.PushInt(s.OrderID)
	w.PushString(s.Status)
	w.PushFloat64(s.Filled)
	w.PushFloat64(s.Remaining)
	w.PushFloat64(s.AvgFillPrice)
	w.PushInt(s.PermID)
	w.PushInt(s.ParentID)
	w.PushFloat64(s.LastFillPrice)
	w.PushInt(s.ClientID)
	w.PushString(s.WhyHeld)
	if serverVersion >= MarketCapPrice {
		w.PushFloat64(s.MarketCapPrice)
	}
	return w.Fields()
}
