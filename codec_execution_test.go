package ibapi

import "testing"

func sampleExecutionData() ExecutionData {
	evMult := 1.0
	return ExecutionData{
		RequestID: 9500,
		Contract: Contract{
			ContractID:   123456,
			Symbol:       "AAPL",
			SecurityType: "STK",
			Exchange:     "SMART",
			Currency:     "USD",
		},
		Execution: Execution{
			OrderID:      42,
			ExecID:       "0001f4a3.6812.01.01",
			Time:         "20260101 10:15:00",
			Account:      "DU1234567",
			Exchange:     "NASDAQ",
			Side:         "BOT",
			Shares:       100,
			Price:        150.25,
			PermID:       987654321,
			ClientID:     7,
			CumQty:       100,
			AvgPrice:     150.25,
			OrderRef:     "ref1",
			EVRule:       "",
			EVMultiplier: &evMult,
		},
	}
}

// TestExecutionDataV200HasNewFields is S5: a frame with
// pending_price_revision and submitter set at v200 decodes those fields.
func TestExecutionDataV200HasNewFields(t *testing.T) {
	const v200 = 200
	d := sampleExecutionData()
	d.Execution.PendingPriceRevision = true
	d.Execution.Submitter = "SUB002"

	fields := encodeExecutionDataRecord(v200, d)
	decoded, err := decodeExecutionData(v200, fields)
	if err != nil {
		t.Fatalf("decodeExecutionData: %v", err)
	}
	if !decoded.Execution.PendingPriceRevision {
		t.Fatal("expected PendingPriceRevision to round-trip true")
	}
	if decoded.Execution.Submitter != "SUB002" {
		t.Fatalf("expected Submitter SUB002, got %q", decoded.Execution.Submitter)
	}
}

// TestExecutionDataV177OmitsNewFields is S5's v177 half: the same
// logical frame at a version below PendingPriceRevision/Submitter omits
// those fields and the decoder defaults them.
func TestExecutionDataV177OmitsNewFields(t *testing.T) {
	const v177 = 177
	d := sampleExecutionData()
	d.Execution.PendingPriceRevision = true // would be set at v200, but the field block doesn't exist at v177
	d.Execution.Submitter = "SUB002"

	fields := encodeExecutionDataRecord(v177, d)
	decoded, err := decodeExecutionData(v177, fields)
	if err != nil {
		t.Fatalf("decodeExecutionData: %v", err)
	}
	if decoded.Execution.PendingPriceRevision {
		t.Fatal("expected PendingPriceRevision to default to false below its threshold")
	}
	if decoded.Execution.Submitter != "" {
		t.Fatalf("expected Submitter to default to empty below its threshold, got %q", decoded.Execution.Submitter)
	}
}

func TestExecutionDataRoundTripFixedVersion(t *testing.T) {
	const v200 = 200
	d := sampleExecutionData()
	d.Execution.ModelCode = "model-1"
	d.Execution.LastLiquidity = 2

	fields := encodeExecutionDataRecord(v200, d)
	decoded, err := decodeExecutionData(v200, fields)
	if err != nil {
		t.Fatalf("decodeExecutionData: %v", err)
	}
	if decoded.RequestID != d.RequestID {
		t.Fatalf("request id mismatch: got %d, want %d", decoded.RequestID, d.RequestID)
	}
	if decoded.Execution.OrderID != 42 {
		t.Fatalf("order id mismatch: got %d, want 42", decoded.Execution.OrderID)
	}
	if decoded.Contract.Symbol != d.Contract.Symbol {
		t.Fatalf("symbol mismatch: got %q, want %q", decoded.Contract.Symbol, d.Contract.Symbol)
	}
	if decoded.Execution.ModelCode != "model-1" {
		t.Fatalf("expected ModelCode model-1, got %q", decoded.Execution.ModelCode)
	}
	if decoded.Execution.LastLiquidity != 2 {
		t.Fatalf("expected LastLiquidity 2, got %v", decoded.Execution.LastLiquidity)
	}

	reencoded := encodeExecutionDataRecord(v200, decoded)
	if len(reencoded) != len(fields) {
		t.Fatalf("re-encode length mismatch: got %d, want %d", len(reencoded), len(fields))
	}
	for i := range fields {
		if reencoded[i] != fields[i] {
			t.Fatalf("re-encode field %d mismatch: got %q, want %q", i, reencoded[i], fields[i])
		}
	}
}

func TestOrderStatusRoundTripWithMarketCapPrice(t *testing.T) {
	s := OrderStatus{
		OrderID: 42, Status: "Filled", Filled: 100, Remaining: 0,
		AvgFillPrice: 150.25, PermID: 987654, ParentID: 0,
		LastFillPrice: 150.25, ClientID: 7, WhyHeld: "",
		MarketCapPrice: 101.5,
	}
	fields := encodeOrderStatusRecord(MarketCapPrice, s)
	decoded, err := decodeOrderStatus(MarketCapPrice, fields)
	if err != nil {
		t.Fatalf("decodeOrderStatus: %v", err)
	}
	if decoded.MarketCapPrice != 101.5 {
		t.Fatalf("expected MarketCapPrice 101.5, got %v", decoded.MarketCapPrice)
	}
	if decoded.Status != "Filled" {
		t.Fatalf("expected status Filled, got %q", decoded.Status)
	}
}

func TestOrderStatusBelowMarketCapPriceOmitsField(t *testing.T) {
	const v = MarketCapPrice - 1
	s := OrderStatus{OrderID: 1, Status: "Cancelled", ClientID: 7}
	fields := encodeOrderStatusRecord(v, s)
	decoded, err := decodeOrderStatus(v, fields)
	if err != nil {
		t.Fatalf("decodeOrderStatus: %v", err)
	}
	if decoded.MarketCapPrice != 0 {
		t.Fatalf("expected zero MarketCapPrice below threshold, got %v", decoded.MarketCapPrice)
	}
}

func TestDecodeCommissionReport(t *testing.T) {
	w := NewMessageWriter()
	w.PushInt(KindCommissionReport)
	w.PushString("1") // message version
	w.PushString("0001f4a3.6812.01.01")
	w.PushFloat64(1.5)
	w.PushString("USD")
	realized := 12.34
	w.PushOptionalFloat64(&realized)
	w.PushOptionalFloat64(nil)
	w.PushString("")

	r, err := decodeCommissionReport(w.Fields())
	if err != nil {
		t.Fatalf("decodeCommissionReport: %v", err)
	}
	if r.ExecID != "0001f4a3.6812.01.01" {
		t.Fatalf("unexpected exec id %q", r.ExecID)
	}
	if r.Commission != 1.5 {
		t.Fatalf("expected commission 1.5, got %v", r.Commission)
	}
	if r.RealizedPNL == nil || *r.RealizedPNL != 12.34 {
		t.Fatalf("expected realized PNL 12.34, got %v", r.RealizedPNL)
	}
	if r.Yield != nil {
		t.Fatalf("expected nil yield, got %v", r.Yield)
	}
}
