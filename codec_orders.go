package ibapi

// Order is the open-order / completed-order record this module decodes.
// Field layout mirrors spec.md §4.G's representative decoder
// obligations for OpenOrder and CompletedOrder: contiguous version-gated
// blocks read in a fixed, positional order. Each version-gated block is
// guarded by a threshold from versions.go, and one threshold may guard
// several blocks; implementers must
// never reorder these reads (spec.md §9 "the protocol's positional
// nature makes mistakes silent").
type Order struct {
	Contract Contract

	OrderID       int32
	ClientID      int32 // absent on CompletedOrder
	PermID        int32
	Action        string
	TotalQuantity float64
	OrderType     string
	LimitPrice    *float64
	AuxPrice      *float64
	TIF           string
	OCAGroup      string
	Account       string
	OpenClose     string
	Origin        int32
	OrderRef      string

	OutsideRTH       bool
	Hidden           bool
	DiscretionaryAmt float64
	GoodAfterTime    string
	FAGroup          string
	FAMethod         string
	FAPercentage     string
	ModelCode        string // gated ModelsSupport

	GoodTillDate       string
	Rule80A            string
	PercentOffset      *float64
	SettlingFirm       string
	ShortSaleSlot      int32
	DesignatedLocation string
	ExemptCode         int32

	AuctionStrategy *int32 // absent on CompletedOrder; zero on the wire decodes as unset

	StartingPrice *float64
	StockRefPrice *float64
	Delta         *float64

	StockRangeLower *float64
	StockRangeUpper *float64

	DisplaySize *int32
	BlockOrder  bool // absent on CompletedOrder
	SweepToFill bool
	AllOrNone   bool
	MinQty      *int32
	OCAType     int32

	ParentID      int32 // absent on CompletedOrder
	TriggerMethod int32

	Volatility            *float64
	VolatilityType        *int32 // zero on the wire decodes as unset
	DeltaNeutralOrderType string
	DeltaNeutralAuxPrice  *float64
	// The remaining delta-neutral fields are read only when
	// DeltaNeutralOrderType is non-empty; the settling/clearing quartet
	// additionally only on OpenOrder.
	DeltaNeutralContractID         int32
	DeltaNeutralSettlingFirm       string
	DeltaNeutralClearingAccount    string
	DeltaNeutralClearingIntent     string
	DeltaNeutralOpenClose          string
	DeltaNeutralShortSale          bool
	DeltaNeutralShortSaleSlot      int32
	DeltaNeutralDesignatedLocation string

	ContinuousUpdate   bool
	ReferencePriceType *int32 // zero on the wire decodes as unset

	TrailStopPrice  *float64
	TrailingPercent *float64

	BasisPoints     *float64 // absent on CompletedOrder
	BasisPointsType *int32   // absent on CompletedOrder

	OrderComboLegs          []*float64
	SmartComboRoutingParams []TagValue

	ScaleInitLevelSize       *int32
	ScaleSubsLevelSize       *int32
	ScalePriceIncrement      *float64
	ScalePriceAdjustValue    *float64
	ScalePriceAdjustInterval *int32
	ScaleProfitOffset        *float64
	ScaleAutoReset           bool
	ScaleInitPosition        *int32
	ScaleInitFillQty         *int32
	ScaleRandomPercent       bool

	HedgeType  string
	HedgeParam string // present only when HedgeType is non-empty

	OptOutSmartRouting bool // absent on CompletedOrder

	ClearingAccount string
	ClearingIntent  string
	NotHeld         bool

	AlgoStrategy string
	AlgoParams   []TagValue

	Solicited bool
	WhatIf    bool // absent on CompletedOrder

	OrderStatus string

	WhatIfInfo WhatIfInfo // absent on CompletedOrder

	RandomizeSize  bool
	RandomizePrice bool

	// Pegged-to-benchmark params, read only for "PEG BENCH" orders.
	ReferenceContractID          int32
	IsPeggedChangeAmountDecrease bool
	PeggedChangeAmount           *float64
	ReferenceChangeAmount        *float64
	ReferenceExchange            string

	Conditions            []OrderCondition
	ConditionsIgnoreRth   bool
	ConditionsCancelOrder bool

	// Adjusted-order params (absent on CompletedOrder, which reads only
	// the trail-stop/limit-offset pair).
	AdjustedOrderType      string
	TriggerPrice           *float64
	LimitPriceOffset       *float64
	AdjustedStopPrice      *float64
	AdjustedStopLimitPrice *float64
	AdjustedTrailingAmount *float64
	AdjustableTrailingUnit int32

	SoftDollarTierName        string // gated SoftDollarTier
	SoftDollarTierValue       string
	SoftDollarTierDisplayName string

	CashQty *float64 // gated CashQty

	DontUseAutoPriceForHedge bool // gated AutoPriceForHedge
	IsOmsContainer           bool // gated OrderContainer

	DiscretionaryUpToLimitPrice bool   // gated DPegOrders; absent on CompletedOrder
	UsePriceMgmtAlgo            bool   // gated PriceMgmtAlgo; absent on CompletedOrder
	Duration                    *int32 // gated Duration; absent on CompletedOrder
	PostToAts                   *int32 // gated PostToAts; absent on CompletedOrder
	AutoCancelParent            bool   // gated AutoCancelParent

	MinTradeQty              *int32 // gated PegBestPegMidOffsets
	MinCompeteSize           *int32
	CompeteAgainstBestOffset *float64
	MidOffsetAtWhole         *float64
	MidOffsetAtHalf          *float64

	CustomerAccount      string // gated CustomerAccount
	ProfessionalCustomer bool   // gated ProfessionalCustomer
	BondAccruedInterest  string // gated BondAccruedInterest; absent on CompletedOrder
	IncludeOvernight     bool   // gated IncludeOvernight; absent on CompletedOrder

	ExtOperator          string // gated CmeTaggingFieldsInOpenOrder; absent on CompletedOrder
	ManualOrderIndicator *int32

	ImbalanceOnly bool   // gated ImbalanceOnly on OpenOrder; always present on CompletedOrder
	Submitter     string // gated Submitter

	// CompletedOrder-only trailer.
	AutoCancelDate       string
	FilledQuantity       float64
	RefFuturesContractID *int32
	Shareholder          string
	RouteMarketableToBbo bool
	ParentPermID         *int64
	CompletedTime        string
	CompletedStatus      string
}

// WhatIfInfo is the margin/commission preview block embedded in an open
// order (spec.md §4.G obligation (h)). All margin figures are optional
// doubles; the full-order-preview extension adds the outside-RTH margin
// set and a count-prefixed allocations list.
type WhatIfInfo struct {
	InitMarginBefore     *float64 // gated WhatIfExtFields
	MaintMarginBefore    *float64
	EquityWithLoanBefore *float64
	InitMarginChange     *float64
	MaintMarginChange    *float64
	EquityWithLoanChange *float64

	InitMarginAfter     *float64
	MaintMarginAfter    *float64
	EquityWithLoanAfter *float64
	Commission          *float64
	MinCommission       *float64
	MaxCommission       *float64
	CommissionCurrency  string

	// Full-order-preview extension, gated FullOrderPreviewFields.
	MarginCurrency                  string
	InitMarginBeforeOutsideRTH      *float64
	MaintMarginBeforeOutsideRTH     *float64
	EquityWithLoanBeforeOutsideRTH  *float64
	InitMarginChangeOutsideRTH      *float64
	MaintMarginChangeOutsideRTH     *float64
	EquityWithLoanChangeOutsideRTH  *float64
	InitMarginAfterOutsideRTH       *float64
	MaintMarginAfterOutsideRTH      *float64
	EquityWithLoanAfterOutsideRTH   *float64
	SuggestedSize                   *float64
	RejectReason                    string
	OrderAllocations                []OrderAllocation

	WarningText string
}

// OrderAllocation is one entry of the nested full-order-preview
// allocations list.
type OrderAllocation struct {
	Account         string
	Position        *float64
	PositionDesired *float64
	PositionAfter   *float64
	DesiredAllocQty *float64
	AllowedAllocQty *float64
	IsMonetary      bool
}

// decodeOpenOrder decodes an OpenOrder response (spec.md §4.G "Open
// order": ~80 contiguous field blocks). serverVersion gates every
// conditional block named in versions.go.
func decodeOpenOrder(serverVersion int32, fields []string) (Order, error) {
	b := NewMessageBuffer(fields[1:]) // fields[0] is the message kind
	if serverVersion < OrderContainer {
		b.Skip() // message version, folded into server_version afterward
	}

	var o Order
	var err error

	if o.OrderID, err = b.NextInt(); err != nil {
		return o, err
	}
	if o.Contract, err = decodeContractForOrder(b); err != nil {
		return o, err
	}
	if err = decodeOrderCore(b, &o); err != nil {
		return o, err
	}
	if o.ClientID, err = b.NextInt(); err != nil {
		return o, err
	}
	if o.PermID, err = b.NextInt(); err != nil {
		return o, err
	}
	if o.OutsideRTH, err = b.NextBool(); err != nil {
		return o, err
	}
	if o.Hidden, err = b.NextBool(); err != nil {
		return o, err
	}
	if o.DiscretionaryAmt, err = b.NextFloat64(); err != nil {
		return o, err
	}
	if o.GoodAfterTime, err = b.NextString(); err != nil {
		return o, err
	}
	b.Skip() // deprecated sharesAllocation
	if err = decodeFAFields(serverVersion, b, &o); err != nil {
		return o, err
	}
	if o.GoodTillDate, err = b.NextString(); err != nil {
		return o, err
	}
	if o.Rule80A, err = b.NextString(); err != nil {
		return o, err
	}
	if o.PercentOffset, err = b.NextOptionalFloat64(); err != nil {
		return o, err
	}
	if o.SettlingFirm, err = b.NextString(); err != nil {
		return o, err
	}
	if err = decodeShortSaleParams(b, &o); err != nil {
		return o, err
	}
	if o.AuctionStrategy, err = nextOptionalNonZeroInt(b); err != nil {
		return o, err
	}
	if err = decodeBoxAndPegParams(b, &o); err != nil {
		return o, err
	}
	if o.DisplaySize, err = b.NextOptionalInt(); err != nil {
		return o, err
	}
	if o.BlockOrder, err = b.NextBool(); err != nil {
		return o, err
	}
	if o.SweepToFill, err = b.NextBool(); err != nil {
		return o, err
	}
	if o.AllOrNone, err = b.NextBool(); err != nil {
		return o, err
	}
	if o.MinQty, err = b.NextOptionalInt(); err != nil {
		return o, err
	}
	if o.OCAType, err = b.NextInt(); err != nil {
		return o, err
	}
	b.Skip() // eTradeOnly, desupported
	b.Skip() // firmQuoteOnly, desupported
	b.Skip() // nbboPriceCap, desupported
	if o.ParentID, err = b.NextInt(); err != nil {
		return o, err
	}
	if o.TriggerMethod, err = b.NextInt(); err != nil {
		return o, err
	}
	if err = decodeVolatilityBlock(b, &o, true); err != nil {
		return o, err
	}
	if err = decodeTrailParams(b, &o); err != nil {
		return o, err
	}
	if o.BasisPoints, err = b.NextOptionalFloat64(); err != nil {
		return o, err
	}
	if o.BasisPointsType, err = b.NextOptionalInt(); err != nil {
		return o, err
	}
	if err = decodeComboBlock(b, &o); err != nil {
		return o, err
	}
	if o.SmartComboRoutingParams, err = decodeTagValueList(b); err != nil {
		return o, err
	}
	if err = decodeScaleParams(b, &o); err != nil {
		return o, err
	}
	if err = decodeHedgeParams(b, &o); err != nil {
		return o, err
	}
	if o.OptOutSmartRouting, err = b.NextBool(); err != nil {
		return o, err
	}
	if err = decodeClearingParams(b, &o); err != nil {
		return o, err
	}
	if o.NotHeld, err = b.NextBool(); err != nil {
		return o, err
	}
	if err = decodeDeltaNeutralContract(b, &o); err != nil {
		return o, err
	}
	if err = decodeAlgoBlock(b, &o); err != nil {
		return o, err
	}
	if o.Solicited, err = b.NextBool(); err != nil {
		return o, err
	}
	if err = decodeWhatIfInfoAndCommission(serverVersion, b, &o); err != nil {
		return o, err
	}
	if err = decodeVolRandomizeFlags(b, &o); err != nil {
		return o, err
	}
	if err = decodePegBenchParams(serverVersion, b, &o); err != nil {
		return o, err
	}
	if err = decodeConditionsBlock(serverVersion, b, &o); err != nil {
		return o, err
	}
	if err = decodeAdjustedOrderParams(serverVersion, b, &o); err != nil {
		return o, err
	}
	if serverVersion >= SoftDollarTier {
		if o.SoftDollarTierName, err = b.NextString(); err != nil {
			return o, err
		}
		if o.SoftDollarTierValue, err = b.NextString(); err != nil {
			return o, err
		}
		if o.SoftDollarTierDisplayName, err = b.NextString(); err != nil {
			return o, err
		}
	}
	if serverVersion >= CashQty {
		if o.CashQty, err = b.NextOptionalFloat64(); err != nil {
			return o, err
		}
	}
	if serverVersion >= AutoPriceForHedge {
		if o.DontUseAutoPriceForHedge, err = b.NextBool(); err != nil {
			return o, err
		}
	}
	if serverVersion >= OrderContainer {
		if o.IsOmsContainer, err = b.NextBool(); err != nil {
			return o, err
		}
	}
	if serverVersion >= DPegOrders {
		if o.DiscretionaryUpToLimitPrice, err = b.NextBool(); err != nil {
			return o, err
		}
	}
	if serverVersion >= PriceMgmtAlgo {
		if o.UsePriceMgmtAlgo, err = b.NextBool(); err != nil {
			return o, err
		}
	}
	if serverVersion >= Duration {
		if o.Duration, err = b.NextOptionalInt(); err != nil {
			return o, err
		}
	}
	if serverVersion >= PostToAts {
		if o.PostToAts, err = b.NextOptionalInt(); err != nil {
			return o, err
		}
	}
	if serverVersion >= AutoCancelParent {
		if o.AutoCancelParent, err = b.NextBool(); err != nil {
			return o, err
		}
	}
	if err = decodePegBestPegMidAttributes(serverVersion, b, &o); err != nil {
		return o, err
	}
	if serverVersion >= CustomerAccount {
		if o.CustomerAccount, err = b.NextString(); err != nil {
			return o, err
		}
	}
	if serverVersion >= ProfessionalCustomer {
		if o.ProfessionalCustomer, err = b.NextBool(); err != nil {
			return o, err
		}
	}
	if serverVersion >= BondAccruedInterest {
		if o.BondAccruedInterest, err = b.NextString(); err != nil {
			return o, err
		}
	}
	if serverVersion >= IncludeOvernight {
		if o.IncludeOvernight, err = b.NextBool(); err != nil {
			return o, err
		}
	}
	if serverVersion >= CmeTaggingFieldsInOpenOrder {
		if o.ExtOperator, err = b.NextString(); err != nil {
			return o, err
		}
		if o.ManualOrderIndicator, err = b.NextOptionalInt(); err != nil {
			return o, err
		}
	}
	if serverVersion >= Submitter {
		if o.Submitter, err = b.NextString(); err != nil {
			return o, err
		}
	}
	if serverVersion >= ImbalanceOnly {
		if o.ImbalanceOnly, err = b.NextBool(); err != nil {
			return o, err
		}
	}

	return o, nil
}

// decodeCompletedOrder decodes a CompletedOrder response: like OpenOrder
// but omits order_id, client_id, auction_strategy, basis_points, the
// desupported skip fields, parent_id, opt_out_smart_routing, and the
// what-if preview; reads order_status inline; appends the completed
// trailer (auto-cancel date, filled quantity, shareholder, parent perm
// id, completed time/status); tail fields gated at CUSTOMER_ACCOUNT,
// PROFESSIONAL_CUSTOMER, SUBMITTER (spec.md §4.G "Completed order").
func decodeCompletedOrder(serverVersion int32, fields []string) (Order, error) {
	b := NewMessageBuffer(fields[1:])
	if serverVersion < OrderContainer {
		b.Skip() // message version
	}

	var o Order
	var err error

	if o.Contract, err = decodeContractForOrder(b); err != nil {
		return o, err
	}
	if err = decodeOrderCore(b, &o); err != nil {
		return o, err
	}
	if o.PermID, err = b.NextInt(); err != nil {
		return o, err
	}
	if o.OutsideRTH, err = b.NextBool(); err != nil {
		return o, err
	}
	if o.Hidden, err = b.NextBool(); err != nil {
		return o, err
	}
	if o.DiscretionaryAmt, err = b.NextFloat64(); err != nil {
		return o, err
	}
	if o.GoodAfterTime, err = b.NextString(); err != nil {
		return o, err
	}
	if err = decodeFAFields(serverVersion, b, &o); err != nil {
		return o, err
	}
	if o.GoodTillDate, err = b.NextString(); err != nil {
		return o, err
	}
	if o.Rule80A, err = b.NextString(); err != nil {
		return o, err
	}
	if o.PercentOffset, err = b.NextOptionalFloat64(); err != nil {
		return o, err
	}
	if o.SettlingFirm, err = b.NextString(); err != nil {
		return o, err
	}
	if err = decodeShortSaleParams(b, &o); err != nil {
		return o, err
	}
	if err = decodeBoxAndPegParams(b, &o); err != nil {
		return o, err
	}
	if o.DisplaySize, err = b.NextOptionalInt(); err != nil {
		return o, err
	}
	if o.SweepToFill, err = b.NextBool(); err != nil {
		return o, err
	}
	if o.AllOrNone, err = b.NextBool(); err != nil {
		return o, err
	}
	if o.MinQty, err = b.NextOptionalInt(); err != nil {
		return o, err
	}
	if o.OCAType, err = b.NextInt(); err != nil {
		return o, err
	}
	if o.TriggerMethod, err = b.NextInt(); err != nil {
		return o, err
	}
	if err = decodeVolatilityBlock(b, &o, false); err != nil {
		return o, err
	}
	if err = decodeTrailParams(b, &o); err != nil {
		return o, err
	}
	if err = decodeComboBlock(b, &o); err != nil {
		return o, err
	}
	if o.SmartComboRoutingParams, err = decodeTagValueList(b); err != nil {
		return o, err
	}
	if err = decodeScaleParams(b, &o); err != nil {
		return o, err
	}
	if err = decodeHedgeParams(b, &o); err != nil {
		return o, err
	}
	if err = decodeClearingParams(b, &o); err != nil {
		return o, err
	}
	if o.NotHeld, err = b.NextBool(); err != nil {
		return o, err
	}
	if err = decodeDeltaNeutralContract(b, &o); err != nil {
		return o, err
	}
	if err = decodeAlgoBlock(b, &o); err != nil {
		return o, err
	}
	if o.Solicited, err = b.NextBool(); err != nil {
		return o, err
	}
	if o.OrderStatus, err = b.NextString(); err != nil {
		return o, err
	}
	if err = decodeVolRandomizeFlags(b, &o); err != nil {
		return o, err
	}
	if err = decodePegBenchParams(serverVersion, b, &o); err != nil {
		return o, err
	}
	if err = decodeConditionsBlock(serverVersion, b, &o); err != nil {
		return o, err
	}
	if o.TrailStopPrice, err = b.NextOptionalFloat64(); err != nil {
		return o, err
	}
	if o.LimitPriceOffset, err = b.NextOptionalFloat64(); err != nil {
		return o, err
	}
	if serverVersion >= CashQty {
		if o.CashQty, err = b.NextOptionalFloat64(); err != nil {
			return o, err
		}
	}
	if serverVersion >= AutoPriceForHedge {
		if o.DontUseAutoPriceForHedge, err = b.NextBool(); err != nil {
			return o, err
		}
	}
	if serverVersion >= OrderContainer {
		if o.IsOmsContainer, err = b.NextBool(); err != nil {
			return o, err
		}
	}
	if o.AutoCancelDate, err = b.NextString(); err != nil {
		return o, err
	}
	// Read as a plain double: captured v173 traffic carries a bare
	// decimal here ("0", "1"), not a dedicated decimal encoding.
	if o.FilledQuantity, err = b.NextFloat64(); err != nil {
		return o, err
	}
	if o.RefFuturesContractID, err = b.NextOptionalInt(); err != nil {
		return o, err
	}
	if serverVersion >= AutoCancelParent {
		if o.AutoCancelParent, err = b.NextBool(); err != nil {
			return o, err
		}
	}
	if o.Shareholder, err = b.NextString(); err != nil {
		return o, err
	}
	if o.ImbalanceOnly, err = b.NextBool(); err != nil {
		return o, err
	}
	if o.RouteMarketableToBbo, err = b.NextBool(); err != nil {
		return o, err
	}
	if o.ParentPermID, err = b.NextOptionalLong(); err != nil {
		return o, err
	}
	if o.CompletedTime, err = b.NextString(); err != nil {
		return o, err
	}
	if o.CompletedStatus, err = b.NextString(); err != nil {
		return o, err
	}
	if err = decodePegBestPegMidAttributes(serverVersion, b, &o); err != nil {
		return o, err
	}
	if serverVersion >= CustomerAccount {
		if o.CustomerAccount, err = b.NextString(); err != nil {
			return o, err
		}
	}
	if serverVersion >= ProfessionalCustomer {
		if o.ProfessionalCustomer, err = b.NextBool(); err != nil {
			return o, err
		}
	}
	if serverVersion >= Submitter {
		if o.Submitter, err = b.NextString(); err != nil {
			return o, err
		}
	}

	return o, nil
}

// decodeOrderCore reads the fields common to every order record
// immediately after the contract block: action through order ref.
func decodeOrderCore(b *MessageBuffer, o *Order) error {
	var err error
	if o.Action, err = b.NextString(); err != nil {
		return err
	}
	if o.TotalQuantity, err = b.NextFloat64(); err != nil {
		return err
	}
	if o.OrderType, err = b.NextString(); err != nil {
		return err
	}
	if o.LimitPrice, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.AuxPrice, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.TIF, err = b.NextString(); err != nil {
		return err
	}
	if o.OCAGroup, err = b.NextString(); err != nil {
		return err
	}
	if o.Account, err = b.NextString(); err != nil {
		return err
	}
	if o.OpenClose, err = b.NextString(); err != nil {
		return err
	}
	if o.Origin, err = b.NextInt(); err != nil {
		return err
	}
	if o.OrderRef, err = b.NextString(); err != nil {
		return err
	}
	return nil
}

// decodeFAFields reads the financial-advisor group/method/percentage
// block, plus ModelCode once ModelsSupport is reached. Below
// FaProfileDesupport the wire carries a legacy trailing field whose
// value supersedes the percentage just read.
func decodeFAFields(serverVersion int32, b *MessageBuffer, o *Order) error {
	var err error
	if o.FAGroup, err = b.NextString(); err != nil {
		return err
	}
	if o.FAMethod, err = b.NextString(); err != nil {
		return err
	}
	if o.FAPercentage, err = b.NextString(); err != nil {
		return err
	}
	if serverVersion < FaProfileDesupport {
		if o.FAPercentage, err = b.NextString(); err != nil {
			return err
		}
	}
	if serverVersion >= ModelsSupport {
		if o.ModelCode, err = b.NextString(); err != nil {
			return err
		}
	}
	return nil
}

func decodeShortSaleParams(b *MessageBuffer, o *Order) error {
	var err error
	if o.ShortSaleSlot, err = b.NextInt(); err != nil {
		return err
	}
	if o.DesignatedLocation, err = b.NextString(); err != nil {
		return err
	}
	if o.ExemptCode, err = b.NextInt(); err != nil {
		return err
	}
	return nil
}

// decodeBoxAndPegParams reads the box-order price triple followed by the
// peg-to-stock range pair.
func decodeBoxAndPegParams(b *MessageBuffer, o *Order) error {
	var err error
	if o.StartingPrice, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.StockRefPrice, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.Delta, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.StockRangeLower, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.StockRangeUpper, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	return nil
}

// decodeVolatilityBlock reads the volatility pair, the delta-neutral
// expansion (spec.md §4.G obligation (a)) when a delta-neutral order
// type is set, and the trailing continuous-update/reference-price pair.
// openOrderAttributes selects the wider expansion OpenOrder carries;
// CompletedOrder omits the settling/clearing quartet.
func decodeVolatilityBlock(b *MessageBuffer, o *Order, openOrderAttributes bool) error {
	var err error
	if o.Volatility, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.VolatilityType, err = nextOptionalNonZeroInt(b); err != nil {
		return err
	}
	if o.DeltaNeutralOrderType, err = b.NextString(); err != nil {
		return err
	}
	if o.DeltaNeutralAuxPrice, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.DeltaNeutralOrderType != "" {
		if o.DeltaNeutralContractID, err = b.NextInt(); err != nil {
			return err
		}
		if openOrderAttributes {
			if o.DeltaNeutralSettlingFirm, err = b.NextString(); err != nil {
				return err
			}
			if o.DeltaNeutralClearingAccount, err = b.NextString(); err != nil {
				return err
			}
			if o.DeltaNeutralClearingIntent, err = b.NextString(); err != nil {
				return err
			}
			if o.DeltaNeutralOpenClose, err = b.NextString(); err != nil {
				return err
			}
		}
		if o.DeltaNeutralShortSale, err = b.NextBool(); err != nil {
			return err
		}
		if o.DeltaNeutralShortSaleSlot, err = b.NextInt(); err != nil {
			return err
		}
		if o.DeltaNeutralDesignatedLocation, err = b.NextString(); err != nil {
			return err
		}
	}
	if o.ContinuousUpdate, err = b.NextBool(); err != nil {
		return err
	}
	if o.ReferencePriceType, err = nextOptionalNonZeroInt(b); err != nil {
		return err
	}
	return nil
}

func decodeTrailParams(b *MessageBuffer, o *Order) error {
	var err error
	if o.TrailStopPrice, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.TrailingPercent, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	return nil
}

// decodeComboBlock reads the flat legs description, the contract-level
// combo legs, and the order-level per-leg prices (spec.md §4.G
// obligations (b), (c)).
func decodeComboBlock(b *MessageBuffer, o *Order) error {
	var err error
	if o.Contract.ComboLegsDescription, err = b.NextString(); err != nil {
		return err
	}
	if o.Contract.ComboLegs, err = decodeComboLegs(b); err != nil {
		return err
	}
	legCount, err := b.NextInt()
	if err != nil {
		return err
	}
	if legCount > 0 {
		o.OrderComboLegs = make([]*float64, 0, legCount)
		for i := int32(0); i < legCount; i++ {
			price, err := b.NextOptionalFloat64()
			if err != nil {
				return err
			}
			o.OrderComboLegs = append(o.OrderComboLegs, price)
		}
	}
	return nil
}

// decodeScaleParams reads the scale-order block, conditionally deeper
// when scale_price_increment > 0 (spec.md §4.G obligation (d)).
func decodeScaleParams(b *MessageBuffer, o *Order) error {
	var err error
	if o.ScaleInitLevelSize, err = b.NextOptionalInt(); err != nil {
		return err
	}
	if o.ScaleSubsLevelSize, err = b.NextOptionalInt(); err != nil {
		return err
	}
	if o.ScalePriceIncrement, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.ScalePriceIncrement == nil || *o.ScalePriceIncrement <= 0 {
		return nil
	}
	if o.ScalePriceAdjustValue, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.ScalePriceAdjustInterval, err = b.NextOptionalInt(); err != nil {
		return err
	}
	if o.ScaleProfitOffset, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.ScaleAutoReset, err = b.NextBool(); err != nil {
		return err
	}
	if o.ScaleInitPosition, err = b.NextOptionalInt(); err != nil {
		return err
	}
	if o.ScaleInitFillQty, err = b.NextOptionalInt(); err != nil {
		return err
	}
	if o.ScaleRandomPercent, err = b.NextBool(); err != nil {
		return err
	}
	return nil
}

// decodeHedgeParams reads the hedge type and, when set, its single
// parameter (spec.md §4.G obligation (e)).
func decodeHedgeParams(b *MessageBuffer, o *Order) error {
	var err error
	if o.HedgeType, err = b.NextString(); err != nil {
		return err
	}
	if o.HedgeType != "" {
		if o.HedgeParam, err = b.NextString(); err != nil {
			return err
		}
	}
	return nil
}

func decodeClearingParams(b *MessageBuffer, o *Order) error {
	var err error
	if o.ClearingAccount, err = b.NextString(); err != nil {
		return err
	}
	if o.ClearingIntent, err = b.NextString(); err != nil {
		return err
	}
	return nil
}

// decodeDeltaNeutralContract reads the present/absent delta-neutral
// contract flag and its fields when present (spec.md §4.G obligation
// (f)).
func decodeDeltaNeutralContract(b *MessageBuffer, o *Order) error {
	has, err := b.NextBool()
	if err != nil {
		return err
	}
	if !has {
		return nil
	}
	var dnc DeltaNeutralContract
	if dnc.ContractID, err = b.NextInt(); err != nil {
		return err
	}
	if dnc.Delta, err = b.NextFloat64(); err != nil {
		return err
	}
	if dnc.Price, err = b.NextFloat64(); err != nil {
		return err
	}
	o.Contract.DeltaNeutralContract = &dnc
	return nil
}

// decodeAlgoBlock reads the algo strategy name and, if non-empty, its
// count-prefixed params (spec.md §4.G obligation (g)).
func decodeAlgoBlock(b *MessageBuffer, o *Order) error {
	var err error
	if o.AlgoStrategy, err = b.NextString(); err != nil {
		return err
	}
	if o.AlgoStrategy == "" {
		return nil
	}
	if o.AlgoParams, err = decodeTagValueList(b); err != nil {
		return err
	}
	return nil
}

// decodeWhatIfInfoAndCommission reads the what-if flag, the inline order
// status, and the margin/commission preview (spec.md §4.G obligation
// (h)), including the FullOrderPreviewFields-gated extension with its
// nested allocations list.
func decodeWhatIfInfoAndCommission(serverVersion int32, b *MessageBuffer, o *Order) error {
	var err error
	if o.WhatIf, err = b.NextBool(); err != nil {
		return err
	}
	if o.OrderStatus, err = b.NextString(); err != nil {
		return err
	}

	w := &o.WhatIfInfo
	if serverVersion >= WhatIfExtFields {
		if w.InitMarginBefore, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.MaintMarginBefore, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.EquityWithLoanBefore, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.InitMarginChange, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.MaintMarginChange, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.EquityWithLoanChange, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
	}
	if w.InitMarginAfter, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if w.MaintMarginAfter, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if w.EquityWithLoanAfter, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if w.Commission, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if w.MinCommission, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if w.MaxCommission, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if w.CommissionCurrency, err = b.NextString(); err != nil {
		return err
	}
	if serverVersion >= FullOrderPreviewFields {
		if w.MarginCurrency, err = b.NextString(); err != nil {
			return err
		}
		if w.InitMarginBeforeOutsideRTH, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.MaintMarginBeforeOutsideRTH, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.EquityWithLoanBeforeOutsideRTH, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.InitMarginChangeOutsideRTH, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.MaintMarginChangeOutsideRTH, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.EquityWithLoanChangeOutsideRTH, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.InitMarginAfterOutsideRTH, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.MaintMarginAfterOutsideRTH, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.EquityWithLoanAfterOutsideRTH, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.SuggestedSize, err = b.NextOptionalFloat64(); err != nil {
			return err
		}
		if w.RejectReason, err = b.NextString(); err != nil {
			return err
		}
		count, err := b.NextInt()
		if err != nil {
			return err
		}
		if count > 0 {
			w.OrderAllocations = make([]OrderAllocation, 0, count)
			for i := int32(0); i < count; i++ {
				var alloc OrderAllocation
				if alloc.Account, err = b.NextString(); err != nil {
					return err
				}
				if alloc.Position, err = b.NextOptionalFloat64(); err != nil {
					return err
				}
				if alloc.PositionDesired, err = b.NextOptionalFloat64(); err != nil {
					return err
				}
				if alloc.PositionAfter, err = b.NextOptionalFloat64(); err != nil {
					return err
				}
				if alloc.DesiredAllocQty, err = b.NextOptionalFloat64(); err != nil {
					return err
				}
				if alloc.AllowedAllocQty, err = b.NextOptionalFloat64(); err != nil {
					return err
				}
				if alloc.IsMonetary, err = b.NextBool(); err != nil {
					return err
				}
				w.OrderAllocations = append(w.OrderAllocations, alloc)
			}
		}
	}
	if w.WarningText, err = b.NextString(); err != nil {
		return err
	}
	return nil
}

func decodeVolRandomizeFlags(b *MessageBuffer, o *Order) error {
	var err error
	if o.RandomizeSize, err = b.NextBool(); err != nil {
		return err
	}
	if o.RandomizePrice, err = b.NextBool(); err != nil {
		return err
	}
	return nil
}

// decodePegBenchParams reads the pegged-to-benchmark block, present only
// for "PEG BENCH" orders at or above the PeggedToBenchmark version.
func decodePegBenchParams(serverVersion int32, b *MessageBuffer, o *Order) error {
	if serverVersion < PeggedToBenchmark || o.OrderType != "PEG BENCH" {
		return nil
	}
	var err error
	if o.ReferenceContractID, err = b.NextInt(); err != nil {
		return err
	}
	if o.IsPeggedChangeAmountDecrease, err = b.NextBool(); err != nil {
		return err
	}
	if o.PeggedChangeAmount, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.ReferenceChangeAmount, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.ReferenceExchange, err = b.NextString(); err != nil {
		return err
	}
	return nil
}

// decodeConditionsBlock reads the tag-dispatched conditions list plus
// its trailing ignore-RTH/cancel flags when non-empty (spec.md §4.G
// obligation (i)).
func decodeConditionsBlock(serverVersion int32, b *MessageBuffer, o *Order) error {
	if serverVersion < PeggedToBenchmark {
		return nil
	}
	var err error
	if o.Conditions, err = decodeConditions(b); err != nil {
		return err
	}
	if len(o.Conditions) > 0 {
		if o.ConditionsIgnoreRth, err = b.NextBool(); err != nil {
			return err
		}
		if o.ConditionsCancelOrder, err = b.NextBool(); err != nil {
			return err
		}
	}
	return nil
}

func decodeAdjustedOrderParams(serverVersion int32, b *MessageBuffer, o *Order) error {
	if serverVersion < PeggedToBenchmark {
		return nil
	}
	var err error
	if o.AdjustedOrderType, err = b.NextString(); err != nil {
		return err
	}
	if o.TriggerPrice, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.TrailStopPrice, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.LimitPriceOffset, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.AdjustedStopPrice, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.AdjustedStopLimitPrice, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.AdjustedTrailingAmount, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.AdjustableTrailingUnit, err = b.NextInt(); err != nil {
		return err
	}
	return nil
}

func decodePegBestPegMidAttributes(serverVersion int32, b *MessageBuffer, o *Order) error {
	if serverVersion < PegBestPegMidOffsets {
		return nil
	}
	var err error
	if o.MinTradeQty, err = b.NextOptionalInt(); err != nil {
		return err
	}
	if o.MinCompeteSize, err = b.NextOptionalInt(); err != nil {
		return err
	}
	if o.CompeteAgainstBestOffset, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.MidOffsetAtWhole, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	if o.MidOffsetAtHalf, err = b.NextOptionalFloat64(); err != nil {
		return err
	}
	return nil
}

// nextOptionalNonZeroInt reads an optional int where a wire zero also
// means "unset" (auction strategy, volatility type, reference price
// type).
func nextOptionalNonZeroInt(b *MessageBuffer) (*int32, error) {
	v, err := b.NextOptionalInt()
	if err != nil {
		return nil, err
	}
	if v != nil && *v == 0 {
		return nil, nil
	}
	return v, nil
}
