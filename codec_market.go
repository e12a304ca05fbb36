package ibapi

import "context"

// This file is a second worked instance of the request/response pattern
// spec.md §1 scopes out beyond specifying: ReqMktData/CancelMktData and
// the TickPrice/TickSize response pair it streams, request-id-keyed and
// with no terminal frame of its own (a market data subscription runs
// until explicitly cancelled, not until an End message arrives).

// TickPrice is one decoded TickPrice response: a tick type code (bid,
// ask, last, ...) and its price, plus the size/attributes that ride
// along with price ticks on current server versions.
type TickPrice struct {
	RequestID     int32
	TickType      int32
	Price         float64
	Size          float64
	CanAutoExecute bool
}

// TickSize is one decoded TickSize response.
type TickSize struct {
	RequestID int32
	TickType  int32
	Size      float64
}

func encodeReqMktData(requestID int32, c Contract, genericTickList string, snapshot, regulatorySnapshot bool) []string {
	w := NewMessageWriter()
	w.PushInt(KindReqMktData)
	w.PushString("11")
	w.PushInt(requestID)
	encodeContractForOrder(w, c)
	w.PushString(genericTickList)
	w.PushBool(snapshot)
	w.PushBool(regulatorySnapshot)
	w.PushString("") // mktDataOptions, reserved
	return w.Fields()
}

func encodeCancelMktData(requestID int32) []string {
	w := NewMessageWriter()
	w.PushInt(KindCancelMktData)
	w.PushString("2")
	w.PushInt(requestID)
	return w.Fields()
}

// DecodeTickPrice decodes a TickPrice frame delivered on a market data
// subscription.
func DecodeTickPrice(fields []string) (TickPrice, error) {
	b := NewMessageBuffer(fields[1:])
	var t TickPrice
	var err error
	b.Skip() // message version
	if t.RequestID, err = b.NextInt(); err != nil {
		return t, err
	}
	if t.TickType, err = b.NextInt(); err != nil {
		return t, err
	}
	if t.Price, err = b.NextFloat64(); err != nil {
		return t, err
	}
	if t.Size, err = b.NextFloat64(); err != nil {
		return t, err
	}
	var attrBits int32
	if attrBits, err = b.NextInt(); err != nil {
		return t, err
	}
	t.CanAutoExecute = attrBits&0x1 != 0
	return t, nil
}

// DecodeTickSize decodes a TickSize frame.
func DecodeTickSize(fields []string) (TickSize, error) {
	b := NewMessageBuffer(fields[1:])
	var t TickSize
	var err error
	b.Skip() // message version
	if t.RequestID, err = b.NextInt(); err != nil {
		return t, err
	}
	if t.TickType, err = b.NextInt(); err != nil {
		return t, err
	}
	if t.Size, err = b.NextFloat64(); err != nil {
		return t, err
	}
	return t, nil
}

// ReqMktData opens a streaming tick subscription. Unlike AccountSummary
// or ContractData, the wire protocol defines no terminal frame for this
// request: the subscription only ends via Cancel or connection shutdown.
func (c *Client) ReqMktData(ctx context.Context, contract Contract, genericTickList string, snapshot bool) (*Subscription, int32, error) {
	requestID := c.NextRequestID()
	request := encodeReqMktData(requestID, contract, genericTickList, snapshot, false)
	cancelFn := func() []string { return encodeCancelMktData(requestID) }
	sub, err := c.subscribe(ctx, requestID, 256, request, cancelFn)
	return sub, requestID, err
}
