package ibapi

import "context"

// encodeOpenOrderRecord mirrors decodeOpenOrder field-for-field, used by
// the round-trip property tests in codec_orders_test.go (spec.md §8
// invariant 1: encode(decode(frame)) == frame for a fixed server_version).
// It is not the wire shape PlaceOrder sends (that is encodePlaceOrder);
// it exists because the server's OpenOrder response has no single
// request counterpart to round-trip against, so the test fixtures need
// their own matching encoder.
func encodeOpenOrderRecord(serverVersion int32, o Order) []string {
	w := NewMessageWriter()
	w.PushInt(KindOpenOrder)
	if serverVersion < OrderContainer {
		w.PushString("1") // message version
	}
	w.PushInt(o.OrderID)
	encodeContractForOrder(w, o.Contract)
	encodeOrderCore(w, o)
	w.PushInt(o.ClientID)
	w.PushInt(o.PermID)
	w.PushBool(o.OutsideRTH)
	w.PushBool(o.Hidden)
	w.PushFloat64(o.DiscretionaryAmt)
	w.PushString(o.GoodAfterTime)
	w.PushString("") // deprecated sharesAllocation
	encodeFAFields(serverVersion, w, o)
	w.PushString(o.GoodTillDate)
	w.PushString(o.Rule80A)
	w.PushOptionalFloat64(o.PercentOffset)
	w.PushString(o.SettlingFirm)
	w.PushInt(o.ShortSaleSlot)
	w.PushString(o.DesignatedLocation)
	w.PushInt(o.ExemptCode)
	w.PushOptionalInt(o.AuctionStrategy)
	encodeBoxAndPegParams(w, o)
	w.PushOptionalInt(o.DisplaySize)
	w.PushBool(o.BlockOrder)
	w.PushBool(o.SweepToFill)
	w.PushBool(o.AllOrNone)
	w.PushOptionalInt(o.MinQty)
	w.PushInt(o.OCAType)
	w.PushBool(false)  // eTradeOnly, desupported
	w.PushBool(false)  // firmQuoteOnly, desupported
	w.PushString("")   // nbboPriceCap, desupported
	w.PushInt(o.ParentID)
	w.PushInt(o.TriggerMethod)
	encodeVolatilityBlock(w, o, true)
	w.PushOptionalFloat64(o.TrailStopPrice)
	w.PushOptionalFloat64(o.TrailingPercent)
	w.PushOptionalFloat64(o.BasisPoints)
	w.PushOptionalInt(o.BasisPointsType)
	encodeComboBlock(w, o)
	encodeTagValueList(w, o.SmartComboRoutingParams)
	encodeScaleParams(w, o)
	encodeHedgeParams(w, o)
	w.PushBool(o.OptOutSmartRouting)
	w.PushString(o.ClearingAccount)
	w.PushString(o.ClearingIntent)
	w.PushBool(o.NotHeld)
	encodeDeltaNeutralContract(w, o)
	encodeAlgoBlock(w, o)
	w.PushBool(o.Solicited)
	encodeWhatIfInfoAndCommission(serverVersion, w, o)
	w.PushBool(o.RandomizeSize)
	w.PushBool(o.RandomizePrice)
	encodePegBenchParams(serverVersion, w, o)
	encodeConditionsBlock(serverVersion, w, o)
	if serverVersion >= PeggedToBenchmark {
		w.PushString(o.AdjustedOrderType)
		w.PushOptionalFloat64(o.TriggerPrice)
		w.PushOptionalFloat64(o.TrailStopPrice)
		w.PushOptionalFloat64(o.LimitPriceOffset)
		w.PushOptionalFloat64(o.AdjustedStopPrice)
		w.PushOptionalFloat64(o.AdjustedStopLimitPrice)
		w.PushOptionalFloat64(o.AdjustedTrailingAmount)
		w.PushInt(o.AdjustableTrailingUnit)
	}
	if serverVersion >= SoftDollarTier {
		w.PushString(o.SoftDollarTierName)
		w.PushString(o.SoftDollarTierValue)
		w.PushString(o.SoftDollarTierDisplayName)
	}
	if serverVersion >= CashQty {
		w.PushOptionalFloat64(o.CashQty)
	}
	if serverVersion >= AutoPriceForHedge {
		w.PushBool(o.DontUseAutoPriceForHedge)
	}
	if serverVersion >= OrderContainer {
		w.PushBool(o.IsOmsContainer)
	}
	if serverVersion >= DPegOrders {
		w.PushBool(o.DiscretionaryUpToLimitPrice)
	}
	if serverVersion >= PriceMgmtAlgo {
		w.PushBool(o.UsePriceMgmtAlgo)
	}
	if serverVersion >= Duration {
		w.PushOptionalInt(o.Duration)
	}
	if serverVersion >= PostToAts {
		w.PushOptionalInt(o.PostToAts)
	}
	if serverVersion >= AutoCancelParent {
		w.PushBool(o.AutoCancelParent)
	}
	encodePegBestPegMidAttributes(serverVersion, w, o)
	if serverVersion >= CustomerAccount {
		w.PushString(o.CustomerAccount)
	}
	if serverVersion >= ProfessionalCustomer {
		w.PushBool(o.ProfessionalCustomer)
	}
	if serverVersion >= BondAccruedInterest {
		w.PushString(o.BondAccruedInterest)
	}
	if serverVersion >= IncludeOvernight {
		w.PushBool(o.IncludeOvernight)
	}
	if serverVersion >= CmeTaggingFieldsInOpenOrder {
		w.PushString(o.ExtOperator)
		w.PushOptionalInt(o.ManualOrderIndicator)
	}
	if serverVersion >= Submitter {
		w.PushString(o.Submitter)
	}
	if serverVersion >= ImbalanceOnly {
		w.PushBool(o.ImbalanceOnly)
	}

	return w.Fields()
}

// encodeCompletedOrderRecord mirrors decodeCompletedOrder field-for-
// field, for the same round-trip-fixture reason as
// encodeOpenOrderRecord (S3/S4).
func encodeCompletedOrderRecord(serverVersion int32, o Order) []string {
	w := NewMessageWriter()
	w.PushInt(KindCompletedOrder)
	if serverVersion < OrderContainer {
		w.PushString("1")
	}
	encodeContractForOrder(w, o.Contract)
	encodeOrderCore(w, o)
	w.PushInt(o.PermID)
	w.PushBool(o.OutsideRTH)
	w.PushBool(o.Hidden)
	w.PushFloat64(o.DiscretionaryAmt)
	w.PushString(o.GoodAfterTime)
	encodeFAFields(serverVersion, w, o)
	w.PushString(o.GoodTillDate)
	w.PushString(o.Rule80A)
	w.PushOptionalFloat64(o.PercentOffset)
	w.PushString(o.SettlingFirm)
	w.PushInt(o.ShortSaleSlot)
	w.PushString(o.DesignatedLocation)
	w.PushInt(o.ExemptCode)
	encodeBoxAndPegParams(w, o)
	w.PushOptionalInt(o.DisplaySize)
	w.PushBool(o.SweepToFill)
	w.PushBool(o.AllOrNone)
	w.PushOptionalInt(o.MinQty)
	w.PushInt(o.OCAType)
	w.PushInt(o.TriggerMethod)
	encodeVolatilityBlock(w, o, false)
	w.PushOptionalFloat64(o.TrailStopPrice)
	w.PushOptionalFloat64(o.TrailingPercent)
	encodeComboBlock(w, o)
	encodeTagValueList(w, o.SmartComboRoutingParams)
	encodeScaleParams(w, o)
	encodeHedgeParams(w, o)
	w.PushString(o.ClearingAccount)
	w.PushString(o.ClearingIntent)
	w.PushBool(o.NotHeld)
	encodeDeltaNeutralContract(w, o)
	encodeAlgoBlock(w, o)
	w.PushBool(o.Solicited)
	w.PushString(o.OrderStatus)
	w.PushBool(o.RandomizeSize)
	w.PushBool(o.RandomizePrice)
	encodePegBenchParams(serverVersion, w, o)
	encodeConditionsBlock(serverVersion, w, o)
	w.PushOptionalFloat64(o.TrailStopPrice)
	w.PushOptionalFloat64(o.LimitPriceOffset)
	if serverVersion >= CashQty {
		w.PushOptionalFloat64(o.CashQty)
	}
	if serverVersion >= AutoPriceForHedge {
		w.PushBool(o.DontUseAutoPriceForHedge)
	}
	if serverVersion >= OrderContainer {
		w.PushBool(o.IsOmsContainer)
	}
	w.PushString(o.AutoCancelDate)
	w.PushFloat64(o.FilledQuantity)
	w.PushOptionalInt(o.RefFuturesContractID)
	if serverVersion >= AutoCancelParent {
		w.PushBool(o.AutoCancelParent)
	}
	w.PushString(o.Shareholder)
	w.PushBool(o.ImbalanceOnly)
	w.PushBool(o.RouteMarketableToBbo)
	w.PushOptionalLong(o.ParentPermID)
	w.PushString(o.CompletedTime)
	w.PushString(o.CompletedStatus)
	encodePegBestPegMidAttributes(serverVersion, w, o)
	if serverVersion >= CustomerAccount {
		w.PushString(o.CustomerAccount)
	}
	if serverVersion >= ProfessionalCustomer {
		w.PushBool(o.ProfessionalCustomer)
	}
	if serverVersion >= Submitter {
		w.PushString(o.Submitter)
	}

	return w.Fields()
}

func encodeOrderCore(w *MessageWriter, o Order) {
	w.PushString(o.Action)
	w.PushFloat64(o.TotalQuantity)
	w.PushString(o.OrderType)
	w.PushOptionalFloat64(o.LimitPrice)
	w.PushOptionalFloat64(o.AuxPrice)
	w.PushString(o.TIF)
	w.PushString(o.OCAGroup)
	w.PushString(o.Account)
	w.PushString(o.OpenClose)
	w.PushInt(o.Origin)
	w.PushString(o.OrderRef)
}

func encodeFAFields(serverVersion int32, w *MessageWriter, o Order) {
	w.PushString(o.FAGroup)
	w.PushString(o.FAMethod)
	if serverVersion < FaProfileDesupport {
		// The percentage lives in the legacy trailing slot; the decoder
		// discards whatever the superseded slot holds.
		w.PushString("")
		w.PushString(o.FAPercentage)
	} else {
		w.PushString(o.FAPercentage)
	}
	if serverVersion >= ModelsSupport {
		w.PushString(o.ModelCode)
	}
}

func encodeBoxAndPegParams(w *MessageWriter, o Order) {
	w.PushOptionalFloat64(o.StartingPrice)
	w.PushOptionalFloat64(o.StockRefPrice)
	w.PushOptionalFloat64(o.Delta)
	w.PushOptionalFloat64(o.StockRangeLower)
	w.PushOptionalFloat64(o.StockRangeUpper)
}

func encodeVolatilityBlock(w *MessageWriter, o Order, openOrderAttributes bool) {
	w.PushOptionalFloat64(o.Volatility)
	w.PushOptionalInt(o.VolatilityType)
	w.PushString(o.DeltaNeutralOrderType)
	w.PushOptionalFloat64(o.DeltaNeutralAuxPrice)
	if o.DeltaNeutralOrderType != "" {
		w.PushInt(o.DeltaNeutralContractID)
		if openOrderAttributes {
			w.PushString(o.DeltaNeutralSettlingFirm)
			w.PushString(o.DeltaNeutralClearingAccount)
			w.PushString(o.DeltaNeutralClearingIntent)
			w.PushString(o.DeltaNeutralOpenClose)
		}
		w.PushBool(o.DeltaNeutralShortSale)
		w.PushInt(o.DeltaNeutralShortSaleSlot)
		w.PushString(o.DeltaNeutralDesignatedLocation)
	}
	w.PushBool(o.ContinuousUpdate)
	w.PushOptionalInt(o.ReferencePriceType)
}

func encodeComboBlock(w *MessageWriter, o Order) {
	w.PushString(o.Contract.ComboLegsDescription)
	encodeComboLegs(w, o.Contract.ComboLegs)
	w.PushInt(int32(len(o.OrderComboLegs)))
	for _, price := range o.OrderComboLegs {
		w.PushOptionalFloat64(price)
	}
}

func encodeScaleParams(w *MessageWriter, o Order) {
	w.PushOptionalInt(o.ScaleInitLevelSize)
	w.PushOptionalInt(o.ScaleSubsLevelSize)
	w.PushOptionalFloat64(o.ScalePriceIncrement)
	if o.ScalePriceIncrement == nil || *o.ScalePriceIncrement <= 0 {
		return
	}
	w.PushOptionalFloat64(o.ScalePriceAdjustValue)
	w.PushOptionalInt(o.ScalePriceAdjustInterval)
	w.PushOptionalFloat64(o.ScaleProfitOffset)
	w.PushBool(o.ScaleAutoReset)
	w.PushOptionalInt(o.ScaleInitPosition)
	w.PushOptionalInt(o.ScaleInitFillQty)
	w.PushBool(o.ScaleRandomPercent)
}

func encodeHedgeParams(w *MessageWriter, o Order) {
	w.PushString(o.HedgeType)
	if o.HedgeType != "" {
		w.PushString(o.HedgeParam)
	}
}

func encodeDeltaNeutralContract(w *MessageWriter, o Order) {
	dnc := o.Contract.DeltaNeutralContract
	w.PushBool(dnc != nil)
	if dnc != nil {
		w.PushInt(dnc.ContractID)
		w.PushFloat64(dnc.Delta)
		w.PushFloat64(dnc.Price)
	}
}

func encodeAlgoBlock(w *MessageWriter, o Order) {
	w.PushString(o.AlgoStrategy)
	if o.AlgoStrategy != "" {
		encodeTagValueList(w, o.AlgoParams)
	}
}

func encodeWhatIfInfoAndCommission(serverVersion int32, w *MessageWriter, o Order) {
	w.PushBool(o.WhatIf)
	w.PushString(o.OrderStatus)

	info := o.WhatIfInfo
	if serverVersion >= WhatIfExtFields {
		w.PushOptionalFloat64(info.InitMarginBefore)
		w.PushOptionalFloat64(info.MaintMarginBefore)
		w.PushOptionalFloat64(info.EquityWithLoanBefore)
		w.PushOptionalFloat64(info.InitMarginChange)
		w.PushOptionalFloat64(info.MaintMarginChange)
		w.PushOptionalFloat64(info.EquityWithLoanChange)
	}
	w.PushOptionalFloat64(info.InitMarginAfter)
	w.PushOptionalFloat64(info.MaintMarginAfter)
	w.PushOptionalFloat64(info.EquityWithLoanAfter)
	w.PushOptionalFloat64(info.Commission)
	w.PushOptionalFloat64(info.MinCommission)
	w.PushOptionalFloat64(info.MaxCommission)
	w.PushString(info.CommissionCurrency)
	if serverVersion >= FullOrderPreviewFields {
		w.PushString(info.MarginCurrency)
		w.PushOptionalFloat64(info.InitMarginBeforeOutsideRTH)
		w.PushOptionalFloat64(info.MaintMarginBeforeOutsideRTH)
		w.PushOptionalFloat64(info.EquityWithLoanBeforeOutsideRTH)
		w.PushOptionalFloat64(info.InitMarginChangeOutsideRTH)
		w.PushOptionalFloat64(info.MaintMarginChangeOutsideRTH)
		w.PushOptionalFloat64(info.EquityWithLoanChangeOutsideRTH)
		w.PushOptionalFloat64(info.InitMarginAfterOutsideRTH)
		w.PushOptionalFloat64(info.MaintMarginAfterOutsideRTH)
		w.PushOptionalFloat64(info.EquityWithLoanAfterOutsideRTH)
		w.PushOptionalFloat64(info.SuggestedSize)
		w.PushString(info.RejectReason)
		w.PushInt(int32(len(info.OrderAllocations)))
		for _, alloc := range info.OrderAllocations {
			w.PushString(alloc.Account)
			w.PushOptionalFloat64(alloc.Position)
			w.PushOptionalFloat64(alloc.PositionDesired)
			w.PushOptionalFloat64(alloc.PositionAfter)
			w.PushOptionalFloat64(alloc.DesiredAllocQty)
			w.PushOptionalFloat64(alloc.AllowedAllocQty)
			w.PushBool(alloc.IsMonetary)
		}
	}
	w.PushString(info.WarningText)
}

func encodePegBenchParams(serverVersion int32, w *MessageWriter, o Order) {
	if serverVersion < PeggedToBenchmark || o.OrderType != "PEG BENCH" {
		return
	}
	w.PushInt(o.ReferenceContractID)
	w.PushBool(o.IsPeggedChangeAmountDecrease)
	w.PushOptionalFloat64(o.PeggedChangeAmount)
	w.PushOptionalFloat64(o.ReferenceChangeAmount)
	w.PushString(o.ReferenceExchange)
}

func encodeConditionsBlock(serverVersion int32, w *MessageWriter, o Order) {
	if serverVersion < PeggedToBenchmark {
		return
	}
	encodeConditions(w, o.Conditions)
	if len(o.Conditions) > 0 {
		w.PushBool(o.ConditionsIgnoreRth)
		w.PushBool(o.ConditionsCancelOrder)
	}
}

func encodePegBestPegMidAttributes(serverVersion int32, w *MessageWriter, o Order) {
	if serverVersion < PegBestPegMidOffsets {
		return
	}
	w.PushOptionalInt(o.MinTradeQty)
	w.PushOptionalInt(o.MinCompeteSize)
	w.PushOptionalFloat64(o.CompeteAgainstBestOffset)
	w.PushOptionalFloat64(o.MidOffsetAtWhole)
	w.PushOptionalFloat64(o.MidOffsetAtHalf)
}

// encodePlaceOrder encodes the outbound PlaceOrder request for orderID.
// The outbound shape shares the contract and core order fields with the
// decoders above but is its own positional sequence; server-only fields
// (order status, what-if preview, the completed trailer) never appear
// here.
func encodePlaceOrder(serverVersion int32, orderID int32, o Order) []string {
	w := NewMessageWriter()
	w.PushInt(KindPlaceOrder)
	w.PushInt(orderID)
	encodeContractForOrder(w, o.Contract)
	encodeOrderCore(w, o)
	w.PushInt(o.ClientID)

	if serverVersion >= SoftDollarTier {
		w.PushString(o.SoftDollarTierName)
		w.PushString(o.SoftDollarTierValue)
		w.PushString(o.SoftDollarTierDisplayName)
	}
	if serverVersion >= CashQty {
		w.PushOptionalFloat64(o.CashQty)
	}
	if serverVersion >= AutoPriceForHedge {
		w.PushBool(o.DontUseAutoPriceForHedge)
	}
	if serverVersion >= OrderContainer {
		w.PushBool(o.IsOmsContainer)
	}
	if serverVersion >= DPegOrders {
		w.PushBool(o.DiscretionaryUpToLimitPrice)
	}
	if serverVersion >= PriceMgmtAlgo {
		w.PushBool(o.UsePriceMgmtAlgo)
	}
	if serverVersion >= Duration {
		w.PushOptionalInt(o.Duration)
	}
	if serverVersion >= PostToAts {
		w.PushOptionalInt(o.PostToAts)
	}
	if serverVersion >= AutoCancelParent {
		w.PushBool(o.AutoCancelParent)
	}
	encodePegBestPegMidAttributes(serverVersion, w, o)
	if serverVersion >= CustomerAccount {
		w.PushString(o.CustomerAccount)
	}
	if serverVersion >= ProfessionalCustomer {
		w.PushBool(o.ProfessionalCustomer)
	}
	if serverVersion >= BondAccruedInterest {
		w.PushString(o.BondAccruedInterest)
	}
	if serverVersion >= IncludeOvernight {
		w.PushBool(o.IncludeOvernight)
	}
	if serverVersion >= CmeTaggingFieldsInOpenOrder {
		w.PushString(o.ExtOperator)
		w.PushOptionalInt(o.ManualOrderIndicator)
	}
	if serverVersion >= Submitter {
		w.PushString(o.Submitter)
	}
	if serverVersion >= ImbalanceOnly {
		w.PushBool(o.ImbalanceOnly)
	}

	return w.Fields()
}

func encodeCancelOrder(orderID int32) []string {
	w := NewMessageWriter()
	w.PushInt(KindCancelOrder)
	w.PushString("1") // message version
	w.PushInt(orderID)
	return w.Fields()
}

// PlaceOrder submits an order and returns a subscription delivering its
// lifecycle messages (OrderStatus, OpenOrder, ExecutionData), keyed by
// order id. The call returns once the outbound frame has been written;
// acknowledgement arrives asynchronously on the subscription.
func (c *Client) PlaceOrder(ctx context.Context, orderID int32, o Order) (*Subscription, error) {
	request := encodePlaceOrder(c.serverVersion, orderID, o)
	cancelFn := func() []string { return encodeCancelOrder(orderID) }
	return c.subscribeOrder(ctx, orderID, 32, request, cancelFn)
}

func encodeReqCompletedOrders(apiOnly bool) []string {
	w := NewMessageWriter()
	w.PushInt(KindReqCompletedOrders)
	w.PushBool(apiOnly)
	return w.Fields()
}

// ReqCompletedOrders attaches to the shared CompletedOrder stream. The
// response frames carry no correlator, so all consumers share one
// process-wide subscription ended by CompletedOrdersEnd; there is no
// wire-level cancel for this request.
func (c *Client) ReqCompletedOrders(ctx context.Context, apiOnly bool) (*Subscription, error) {
	return c.attachShared(ctx, KindCompletedOrder, 64, encodeReqCompletedOrders(apiOnly), nil)
}

// DecodeOpenOrder decodes an OpenOrder frame at this connection's
// negotiated server version.
func (c *Client) DecodeOpenOrder(fields []string) (Order, error) {
	return decodeOpenOrder(c.serverVersion, fields)
}

// DecodeCompletedOrder decodes a CompletedOrder frame.
func (c *Client) DecodeCompletedOrder(fields []string) (Order, error) {
	return decodeCompletedOrder(c.serverVersion, fields)
}

// DecodeOrderStatus decodes an OrderStatus frame.
func (c *Client) DecodeOrderStatus(fields []string) (OrderStatus, error) {
	return decodeOrderStatus(c.serverVersion, fields)
}

// DecodeExecutionData decodes an ExecutionData frame.
func (c *Client) DecodeExecutionData(fields []string) (ExecutionData, error) {
	return decodeExecutionData(c.serverVersion, fields)
}
