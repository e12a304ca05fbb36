package ibapi

import "context"

// This file is the one worked instance spec.md §1 calls for of the
// request/response pattern every other high-level wrapper (contract
// details, scanner subscriptions, market depth, ...) would follow: an
// encoder, a decoder, and a Client method gluing them to subscribe/
// Cancel. AccountSummary is request-id-keyed and streaming-until-End;
// Position is a shared/reference-counted singleton (SPEC_FULL.md
// supplemented feature 1); PnL is request-id-keyed.

// AccountSummaryTag names one of the tags a ReqAccountSummary request
// asks the server to stream (e.g. "NetLiquidation", "TotalCashValue").
type AccountSummaryTag = string

// AccountSummaryRow is one decoded AccountSummary response: one tag's
// value for one account.
type AccountSummaryRow struct {
	RequestID int32
	Account   string
	Tag       string
	Value     string
	Currency  string
}

func encodeReqAccountSummary(requestID int32, group string, tags []AccountSummaryTag) []string {
	w := NewMessageWriter()
	w.PushInt(KindReqAccountSummary)
	w.PushString("1")
	w.PushInt(requestID)
	w.PushString(group)
	joined := ""
	for i, t := range tags {
		if i > 0 {
			joined += ","
		}
		joined += t
	}
	w.PushString(joined)
	return w.Fields()
}

func encodeCancelAccountSummary(requestID int32) []string {
	w := NewMessageWriter()
	w.PushInt(KindCancelAccountSummary)
	w.PushString("1")
	w.PushInt(requestID)
	return w.Fields()
}

// DecodeAccountSummaryRow decodes one AccountSummary frame.
func DecodeAccountSummaryRow(fields []string) (AccountSummaryRow, error) {
	b := NewMessageBuffer(fields[1:])
	var row AccountSummaryRow
	var err error
	b.Skip() // message version
	if row.RequestID, err = b.NextInt(); err != nil {
		return row, err
	}
	if row.Account, err = b.NextString(); err != nil {
		return row, err
	}
	if row.Tag, err = b.NextString(); err != nil {
		return row, err
	}
	if row.Value, err = b.NextString(); err != nil {
		return row, err
	}
	if row.Currency, err = b.NextString(); err != nil {
		return row, err
	}
	return row, nil
}

// ReqAccountSummary opens a streaming AccountSummary subscription: one
// row per tag per account until AccountSummaryEnd. This is the worked
// pattern instance: allocate id (Component D), encode (Component G),
// register (Component F), send (Component A), return the handle.
func (c *Client) ReqAccountSummary(ctx context.Context, group string, tags []AccountSummaryTag) (*Subscription, int32, error) {
	requestID := c.NextRequestID()
	request := encodeReqAccountSummary(requestID, group, tags)
	cancelFn := func() []string { return encodeCancelAccountSummary(requestID) }
	sub, err := c.subscribe(ctx, requestID, 32, request, cancelFn)
	return sub, requestID, err
}

// Position is one decoded Position response row.
type Position struct {
	Account    string
	Contract   Contract
	Position   float64
	AvgCost    float64
}

func encodeReqPositions() []string {
	w := NewMessageWriter()
	w.PushInt(KindReqPositions)
	w.PushString("1")
	return w.Fields()
}

func encodeCancelPositions() []string {
	w := NewMessageWriter()
	w.PushInt(KindCancelPositions)
	w.PushString("1")
	return w.Fields()
}

// DecodePosition decodes one Position frame from the shared stream.
func DecodePosition(fields []string) (Position, error) {
	b := NewMessageBuffer(fields[1:])
	var p Position
	var err error
	b.Skip() // message version
	if p.Account, err = b.NextString(); err != nil {
		return p, err
	}
	if p.Contract, err = decodeContractForOrder(b); err != nil {
		return p, err
	}
	if p.Position, err = b.NextFloat64(); err != nil {
		return p, err
	}
	if p.AvgCost, err = b.NextFloat64(); err != nil {
		return p, err
	}
	return p, nil
}

// ReqPositions attaches to the process-wide shared Position stream
// (spec.md §4.F "Shared-channel subscriptions"; S9): the wire request is
// only sent for the first attaching consumer, and CancelPositions is
// only sent once every attached consumer has dropped.
func (c *Client) ReqPositions(ctx context.Context) (*Subscription, error) {
	return c.attachShared(ctx, KindPosition, 64, encodeReqPositions(), func() []string {
		return encodeCancelPositions()
	})
}

// PnL is one decoded PnL response row (account-level, unrealized/
// realized/daily).
type PnL struct {
	RequestID    int32
	DailyPnL     float64
	UnrealizedPnL *float64
	RealizedPnL   *float64
}

func encodeReqPnL(requestID int32, account, modelCode string) []string {
	w := NewMessageWriter()
	w.PushInt(KindReqPnL)
	w.PushInt(requestID)
	w.PushString(account)
	w.PushString(modelCode)
	return w.Fields()
}

func encodeCancelPnL(requestID int32) []string {
	w := NewMessageWriter()
	w.PushInt(KindCancelPnL)
	w.PushInt(requestID)
	return w.Fields()
}

// DecodePnL decodes one PnL frame.
func DecodePnL(fields []string) (PnL, error) {
	b := NewMessageBuffer(fields[1:])
	var p PnL
	var err error
	if p.RequestID, err = b.NextInt(); err != nil {
		return p, err
	}
	if p.DailyPnL, err = b.NextFloat64(); err != nil {
		return p, err
	}
	if p.UnrealizedPnL, err = b.NextOptionalFloat64(); err != nil {
		return p, err
	}
	if p.RealizedPnL, err = b.NextOptionalFloat64(); err != nil {
		return p, err
	}
	return p, nil
}

// ReqPnL opens a request-id-keyed PnL stream for one account/model.
func (c *Client) ReqPnL(ctx context.Context, account, modelCode string) (*Subscription, int32, error) {
	requestID := c.NextRequestID()
	request := encodeReqPnL(requestID, account, modelCode)
	cancelFn := func() []string { return encodeCancelPnL(requestID) }
	sub, err := c.subscribe(ctx, requestID, 8, request, cancelFn)
	return sub, requestID, err
}
