package ibapi

// Message kind tags shared by the request and response wire vocabularies.
// Requests and responses are disjoint by direction even though the tag
// space overlaps numerically (spec.md §3 "Routing key").
const (
	// Request kinds.
	KindReqMktData           = 1
	KindCancelMktData        = 2
	KindPlaceOrder           = 3
	KindCancelOrder          = 4
	KindReqOpenOrders        = 5
	KindReqAccountData       = 6
	KindReqExecutions        = 7
	KindReqIds               = 8
	KindReqContractData      = 9
	KindReqAllOpenOrders     = 16
	KindReqPositions         = 61
	KindCancelPositions      = 64
	KindReqAccountSummary    = 62
	KindCancelAccountSummary = 63
	KindReqCompletedOrders   = 99
	KindReqPnL               = 92
	KindCancelPnL            = 93
	KindReqPnLSingle         = 94
	KindCancelPnLSingle      = 95
	KindStartApi             = 71

	// Response kinds.
	KindTickPrice         = 1
	KindTickSize          = 2
	KindOrderStatus       = 3
	KindError             = 4
	KindOpenOrder         = 5
	KindAccountValue      = 6
	KindPortfolioValue    = 7
	KindAccountUpdateTime = 8
	KindNextValidID       = 9
	KindContractData      = 10
	KindExecutionData     = 11
	KindContractDataEnd   = 52
	KindOpenOrderEnd      = 53
	KindAccountDownloadEnd = 54
	KindExecutionDataEnd  = 55
	KindManagedAccounts   = 15
	KindAccountSummary    = 63
	KindAccountSummaryEnd = 64
	KindPosition          = 61
	KindPositionEnd       = 62
	KindPnL               = 94
	KindPnLSingle         = 95
	KindCompletedOrder    = 101
	KindCompletedOrdersEnd = 102
	KindCommissionReport  = 59
)

// RoutingMode describes how an inbound response message is correlated to
// a live subscription.
type RoutingMode int

const (
	// RouteByRequestID dispatches on the request id carried in the
	// message (the common case for streaming and one-shot calls).
	RouteByRequestID RoutingMode = iota
	// RouteByOrderID dispatches on the order id (order lifecycle
	// messages: OrderStatus, OpenOrder, ExecutionData). CommissionReport
	// carries no order id and is not routed this way.
	RouteByOrderID
	// RouteByKind dispatches on the message kind alone — unsolicited
	// singletons such as NextValidId, ManagedAccounts, and connection-
	// level errors with no owning request.
	RouteByKind
)

// kindRoute is one entry of the static message-kind routing table
// (spec.md §3 "The codec owns a static table mapping message kind ->
// (direction, routing-key position, end-of-stream kind if any)").
type kindRoute struct {
	mode RoutingMode
	// keyField is the ordinal field position (0-indexed, after the kind
	// field itself) the routing key is read from when mode is
	// RouteByRequestID or RouteByOrderID.
	keyField int
	// endOfStream, if non-zero, names the message kind that terminates
	// the owning subscription's logical stream.
	endOfStream int32
	// sharedKey, for RouteByKind entries, names the message kind a
	// process-wide shared subscription registers under (e.g. PositionEnd
	// frames terminate the subscription keyed by Position). Zero means
	// the kind has no shared stream and goes to the unsolicited sink.
	sharedKey int32
}

// responseRoutes is the compile-time table keyed by response message
// kind. A table-driven dispatch avoids a virtual hierarchy for ~150
// message kinds (spec.md §9 "Dynamic dispatch on message kind").
var responseRoutes = map[int32]kindRoute{
	KindTickPrice:          {mode: RouteByRequestID, keyField: 1},
	KindTickSize:           {mode: RouteByRequestID, keyField: 1},
	KindOrderStatus:        {mode: RouteByOrderID, keyField: 0},
	KindError:              {mode: RouteByRequestID, keyField: 1},
	KindOpenOrder:          {mode: RouteByOrderID, keyField: 0},
	KindAccountValue:       {mode: RouteByKind, sharedKey: KindAccountValue},
	KindPortfolioValue:     {mode: RouteByKind, sharedKey: KindAccountValue},
	KindAccountUpdateTime:  {mode: RouteByKind, sharedKey: KindAccountValue},
	KindAccountDownloadEnd: {mode: RouteByKind, sharedKey: KindAccountValue, endOfStream: KindAccountDownloadEnd},
	KindNextValidID:        {mode: RouteByKind},
	KindContractData:       {mode: RouteByRequestID, keyField: 1},
	KindContractDataEnd:    {mode: RouteByRequestID, keyField: 1},
	KindExecutionData:      {mode: RouteByOrderID, keyField: 1}, // request id, then order id; no version field on supported server versions
	KindExecutionDataEnd:   {mode: RouteByRequestID, keyField: 1},
	KindCommissionReport:   {mode: RouteByKind}, // correlated by exec id string, not a numeric key; goes to the unsolicited sink
	KindManagedAccounts:    {mode: RouteByKind},
	KindAccountSummary:     {mode: RouteByRequestID, keyField: 1},
	KindAccountSummaryEnd:  {mode: RouteByRequestID, keyField: 1, endOfStream: KindAccountSummaryEnd},
	KindPosition:           {mode: RouteByKind, sharedKey: KindPosition},
	KindPositionEnd:        {mode: RouteByKind, sharedKey: KindPosition, endOfStream: KindPositionEnd},
	KindPnL:                {mode: RouteByRequestID, keyField: 0}, // no version field
	KindPnLSingle:          {mode: RouteByRequestID, keyField: 0},
	KindCompletedOrder:     {mode: RouteByKind, sharedKey: KindCompletedOrder}, // carries no correlator at all
	KindCompletedOrdersEnd: {mode: RouteByKind, sharedKey: KindCompletedOrder, endOfStream: KindCompletedOrdersEnd},
	KindOpenOrderEnd:       {mode: RouteByKind, endOfStream: KindOpenOrderEnd},
}

// routeFor looks up the routing descriptor for an inbound message kind.
// The bool is false for unrecognized kinds, which the router treats as
// unsolicited and forwards to the connection-level sink.
func routeFor(kind int32) (kindRoute, bool) {
	r, ok := responseRoutes[kind]
	return r, ok
}
