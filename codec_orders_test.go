package ibapi

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// completedOrderCaptureAAPL is a real CompletedOrder message captured
// from a live IB Gateway at server version 173: an AAPL STK limit order
// cancelled by the trader. The trailing empty field is the terminal NUL
// the framing layer preserves.
var completedOrderCaptureAAPL = []string{
	"101", "265598", "AAPL", "STK", "", "0", "?", "",
	"SMART", "USD", "AAPL", "NMS", "BUY", "1", "LMT", "100.0",
	"0.0", "DAY", "", "DU1236109", "", "0", "", "1295810623",
	"0", "0", "0", "", "", "", "", "",
	"", "", "", "", "", "0", "", "-1",
	"", "", "", "", "", "2147483647", "0", "0",
	"", "3", "0", "", "0", "None", "", "0",
	"0", "0", "", "0", "0", "", "", "",
	"0", "0", "0", "2147483647", "2147483647", "", "", "",
	"IB", "0", "0", "", "0", "Cancelled", "0", "0",
	"0", "101.0", "1.7976931348623157E308", "0", "1", "0", "", "0",
	"2147483647", "0", "Not an insider or substantial shareholder", "0", "0", "9223372036854775807", "20250924 01:21:07 America/New_York", "Cancelled by Trader",
	"", "", "", "", "", "", "",
}

// completedOrderCaptureBAG is a real 117-field SPY BAG (combo/spread)
// CompletedOrder capture at server version 173, filled.
var completedOrderCaptureBAG = []string{
	"101", "28812380", "SPY", "BAG", "", "0", "?", "",
	"SMART", "USD", "28812380", "COMB", "BUY", "0", "LMT", "-0.57",
	"0.0", "DAY", "", "DUK000000", "", "0", "bpcs", "216108144",
	"0", "0", "0", "", "", "", "", "",
	"", "", "0", "", "", "0", "", "-1",
	"", "", "", "", "", "2147483647", "0", "0",
	"", "3", "0", "", "0", "None", "", "0",
	"0", "0", "", "0", "0", "", "", "810118027|1,810118051|-1",
	"2", "810118027", "1", "BUY", "SMART", "0", "0", "",
	"-1", "810118051", "1", "SELL", "SMART", "0", "0", "",
	"-1", "0", "0", "2147483647", "2147483647", "", "", "",
	"IB", "0", "0", "", "0", "Filled", "0", "0",
	"0", "1.7976931348623157E308", "1.7976931348623157E308", "0", "1", "0", "", "1",
	"2147483647", "0", "Not an insider or substantial shareholder", "0", "0", "0", "20250922 11:49:07 America/Los_Angeles", "Filled Size: 1",
	"", "", "", "", "", "",
}

// TestCompletedOrderParsingRealCapture is S3: the 102-field AAPL LMT
// capture at server version 173 decodes with the documented values.
func TestCompletedOrderParsingRealCapture(t *testing.T) {
	o, err := decodeCompletedOrder(173, completedOrderCaptureAAPL)
	if err != nil {
		t.Fatalf("decodeCompletedOrder: %v", err)
	}

	if o.Contract.Symbol != "AAPL" {
		t.Errorf("symbol: got %q, want AAPL", o.Contract.Symbol)
	}
	if o.Contract.SecurityType != "STK" {
		t.Errorf("security type: got %q, want STK", o.Contract.SecurityType)
	}
	if o.Action != "BUY" {
		t.Errorf("action: got %q, want BUY", o.Action)
	}
	if o.OrderType != "LMT" {
		t.Errorf("order type: got %q, want LMT", o.OrderType)
	}
	if o.LimitPrice == nil || *o.LimitPrice != 100.0 {
		t.Errorf("limit price: got %v, want 100.0", o.LimitPrice)
	}
	if o.OrderStatus != "Cancelled" {
		t.Errorf("status: got %q, want Cancelled", o.OrderStatus)
	}
	if o.CompletedTime != "20250924 01:21:07 America/New_York" {
		t.Errorf("completed time: got %q", o.CompletedTime)
	}
	if o.CompletedStatus != "Cancelled by Trader" {
		t.Errorf("completed status: got %q", o.CompletedStatus)
	}

	// Server version 173 is below the CustomerAccount/
	// ProfessionalCustomer/Submitter thresholds, so those fields must
	// come back as defaults rather than misaligned reads.
	if o.CustomerAccount != "" || o.ProfessionalCustomer || o.Submitter != "" {
		t.Errorf("v183+ fields should be defaults at v173: %q %v %q",
			o.CustomerAccount, o.ProfessionalCustomer, o.Submitter)
	}
	if o.Shareholder != "Not an insider or substantial shareholder" {
		t.Errorf("shareholder: got %q", o.Shareholder)
	}
	if o.ParentPermID != nil {
		t.Errorf("parent perm id: got %v, want unset", *o.ParentPermID)
	}
}

// TestCompletedOrderParsingRealCaptureBag is S4: the 117-field SPY BAG
// capture decodes with two combo legs and status Filled.
func TestCompletedOrderParsingRealCaptureBag(t *testing.T) {
	o, err := decodeCompletedOrder(173, completedOrderCaptureBAG)
	if err != nil {
		t.Fatalf("decodeCompletedOrder: %v", err)
	}

	if o.Contract.Symbol != "SPY" {
		t.Errorf("symbol: got %q, want SPY", o.Contract.Symbol)
	}
	if o.Contract.SecurityType != "BAG" {
		t.Errorf("security type: got %q, want BAG", o.Contract.SecurityType)
	}
	if o.OrderStatus != "Filled" {
		t.Errorf("status: got %q, want Filled", o.OrderStatus)
	}
	if o.FilledQuantity != 1 {
		t.Errorf("filled quantity: got %v, want 1", o.FilledQuantity)
	}

	wantLegs := []ComboLeg{
		{ContractID: 810118027, Ratio: 1, Action: "BUY", Exchange: "SMART", ExemptCode: -1},
		{ContractID: 810118051, Ratio: 1, Action: "SELL", Exchange: "SMART", ExemptCode: -1},
	}
	if diff := cmp.Diff(wantLegs, o.Contract.ComboLegs); diff != "" {
		t.Errorf("combo legs mismatch (-want +got):\n%s", diff)
	}
	if o.Contract.ComboLegsDescription != "810118027|1,810118051|-1" {
		t.Errorf("combo legs description: got %q", o.Contract.ComboLegsDescription)
	}
}

func f64(v float64) *float64 { return &v }
func i32(v int32) *int32     { return &v }

func sampleOpenOrderV200() Order {
	return Order{
		Contract: Contract{
			ContractID:   265598,
			Symbol:       "AAPL",
			SecurityType: "STK",
			Exchange:     "SMART",
			Currency:     "USD",
			LocalSymbol:  "AAPL",
			TradingClass: "NMS",
		},
		OrderID:       1001,
		ClientID:      7,
		PermID:        555000111,
		Action:        "BUY",
		TotalQuantity: 100,
		OrderType:     "LMT",
		LimitPrice:    f64(185.5),
		TIF:           "DAY",
		Account:       "DU1236109",
		OrderStatus:   "Submitted",

		CustomerAccount:      "CUST001",
		ProfessionalCustomer: true,
		BondAccruedInterest:  "1.25",
		IncludeOvernight:     true,
		ExtOperator:          "EXTOP1",
		ManualOrderIndicator: i32(3),
		Submitter:            "SUB001",
		ImbalanceOnly:        true,
	}
}

// TestOpenOrderV200NewFieldsRoundTrip is S1: an order carrying every
// v183+ field encodes and decodes losslessly at server version 200.
func TestOpenOrderV200NewFieldsRoundTrip(t *testing.T) {
	const v200 = 200
	original := sampleOpenOrderV200()

	fields := encodeOpenOrderRecord(v200, original)
	decoded, err := decodeOpenOrder(v200, fields)
	if err != nil {
		t.Fatalf("decodeOpenOrder: %v", err)
	}

	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Fatalf("decoded order mismatch (-want +got):\n%s", diff)
	}

	// Invariant 1: encode(decode(frame)) == frame at fixed version.
	reencoded := encodeOpenOrderRecord(v200, decoded)
	if diff := cmp.Diff(fields, reencoded); diff != "" {
		t.Fatalf("re-encode mismatch (-want +got):\n%s", diff)
	}
}

// TestOpenOrderV182ElidesNewFields is S2: the same logical order encoded
// at server version 182 omits every v183+ field, and decoding at 182
// yields defaults for them.
func TestOpenOrderV182ElidesNewFields(t *testing.T) {
	const v182 = 182
	original := sampleOpenOrderV200()

	fields := encodeOpenOrderRecord(v182, original)
	joined := strings.Join(fields, "\x00")
	for _, leaked := range []string{"CUST001", "1.25", "EXTOP1", "SUB001"} {
		if strings.Contains(joined, leaked) {
			t.Errorf("v183+ field value %q leaked into a v182 frame", leaked)
		}
	}

	decoded, err := decodeOpenOrder(v182, fields)
	if err != nil {
		t.Fatalf("decodeOpenOrder: %v", err)
	}
	if decoded.CustomerAccount != "" || decoded.ProfessionalCustomer ||
		decoded.BondAccruedInterest != "" || decoded.IncludeOvernight ||
		decoded.ExtOperator != "" || decoded.ManualOrderIndicator != nil ||
		decoded.Submitter != "" || decoded.ImbalanceOnly {
		t.Fatal("expected every v183+ field to decode to its default at v182")
	}

	// The core fields survive regardless of the elided tail.
	if decoded.Contract.Symbol != "AAPL" || decoded.LimitPrice == nil || *decoded.LimitPrice != 185.5 {
		t.Fatalf("core fields did not survive the v182 encode: %+v", decoded.Contract)
	}
}

// TestFAFieldsLegacyOverrideBelowDesupport pins the pre-desupport FA
// block layout: the legacy trailing field supersedes the percentage
// slot read just before it.
func TestFAFieldsLegacyOverrideBelowDesupport(t *testing.T) {
	b := NewMessageBuffer([]string{"grp1", "EqualQuantity", "superseded", "60", "model-1"})
	var o Order
	if err := decodeFAFields(173, b, &o); err != nil {
		t.Fatalf("decodeFAFields: %v", err)
	}
	if o.FAPercentage != "60" {
		t.Fatalf("expected the legacy field to supersede the percentage, got %q", o.FAPercentage)
	}
	if o.FAGroup != "grp1" || o.FAMethod != "EqualQuantity" || o.ModelCode != "model-1" {
		t.Fatalf("unexpected FA block: %q %q %q", o.FAGroup, o.FAMethod, o.ModelCode)
	}

	// At or above the desupport threshold the percentage slot itself is
	// authoritative and no legacy field follows.
	b2 := NewMessageBuffer([]string{"grp1", "EqualQuantity", "60", "model-1"})
	var o2 Order
	if err := decodeFAFields(FaProfileDesupport, b2, &o2); err != nil {
		t.Fatalf("decodeFAFields: %v", err)
	}
	if o2.FAPercentage != "60" || o2.ModelCode != "model-1" {
		t.Fatalf("unexpected FA block at desupport version: %q %q", o2.FAPercentage, o2.ModelCode)
	}
}

// TestOpenOrderFARoundTripBelowDesupport is invariant 1 at a
// pre-desupport version: an order carrying a non-empty FA percentage
// survives encode/decode/encode at v173 unchanged.
func TestOpenOrderFARoundTripBelowDesupport(t *testing.T) {
	const v173 = 173
	o := sampleOpenOrderV200()
	o.FAGroup = "grp1"
	o.FAMethod = "PctChange"
	o.FAPercentage = "60"

	fields := encodeOpenOrderRecord(v173, o)
	decoded, err := decodeOpenOrder(v173, fields)
	if err != nil {
		t.Fatalf("decodeOpenOrder: %v", err)
	}
	if decoded.FAPercentage != "60" {
		t.Fatalf("FA percentage did not survive the legacy slot: %q", decoded.FAPercentage)
	}

	// The v183+ tail fields are elided at 173; clear them before the
	// struct comparison so only the live field blocks are diffed.
	want := o
	want.CustomerAccount = ""
	want.ProfessionalCustomer = false
	want.BondAccruedInterest = ""
	want.IncludeOvernight = false
	want.ExtOperator = ""
	want.ManualOrderIndicator = nil
	want.Submitter = ""
	want.ImbalanceOnly = false
	if diff := cmp.Diff(want, decoded); diff != "" {
		t.Fatalf("decoded order mismatch (-want +got):\n%s", diff)
	}

	reencoded := encodeOpenOrderRecord(v173, decoded)
	if diff := cmp.Diff(fields, reencoded); diff != "" {
		t.Fatalf("re-encode mismatch (-want +got):\n%s", diff)
	}
}

// TestOpenOrderVersionGatedFrameLengths is invariant 2 from the
// encoder's side: from v182 up, the same order's frame never gets
// shorter as the version rises, and the v182 and v200 frames differ in
// length.
func TestOpenOrderVersionGatedFrameLengths(t *testing.T) {
	// Starts above FaProfileDesupport, which removes a legacy field, so
	// frames at and above it are one field shorter than frames below it.
	o := sampleOpenOrderV200()
	versions := []int32{182, 183, 184, 185, 186, 187, 189, 198, 200}
	prev := -1
	for _, v := range versions {
		n := len(encodeOpenOrderRecord(v, o))
		if n < prev {
			t.Fatalf("frame length regressed at version %d: %d < %d", v, n, prev)
		}
		prev = n
	}
	if len(encodeOpenOrderRecord(182, o)) == len(encodeOpenOrderRecord(200, o)) {
		t.Fatal("v182 and v200 frames must differ in length for an order carrying v183+ fields")
	}
}

// TestOpenOrderDeltaNeutralExpansion covers obligation (a): the 8-field
// open-order delta-neutral expansion (contract id, the settling/clearing
// quartet, the short-sale triple) is read exactly when a delta-neutral
// order type is present.
func TestOpenOrderDeltaNeutralExpansion(t *testing.T) {
	const v200 = 200
	o := sampleOpenOrderV200()
	o.Volatility = f64(0.3)
	o.VolatilityType = i32(2)
	o.DeltaNeutralOrderType = "MKT"
	o.DeltaNeutralContractID = 43405763
	o.DeltaNeutralSettlingFirm = "IBCO"
	o.DeltaNeutralClearingAccount = "DU1"
	o.DeltaNeutralClearingIntent = "IB"
	o.DeltaNeutralOpenClose = "O"
	o.DeltaNeutralShortSaleSlot = 1
	o.DeltaNeutralDesignatedLocation = "loc"

	fields := encodeOpenOrderRecord(v200, o)
	decoded, err := decodeOpenOrder(v200, fields)
	if err != nil {
		t.Fatalf("decodeOpenOrder: %v", err)
	}
	if diff := cmp.Diff(o, decoded); diff != "" {
		t.Fatalf("delta-neutral round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestOpenOrderScaleAndAlgoBlocks covers obligations (d) and (g): the
// scale block reads deeper only when the price increment is positive,
// and algo params are read only for a named strategy.
func TestOpenOrderScaleAndAlgoBlocks(t *testing.T) {
	const v200 = 200
	o := sampleOpenOrderV200()
	o.ScaleInitLevelSize = i32(5)
	o.ScaleSubsLevelSize = i32(3)
	o.ScalePriceIncrement = f64(0.25)
	o.ScalePriceAdjustValue = f64(0.05)
	o.ScalePriceAdjustInterval = i32(60)
	o.ScaleProfitOffset = f64(1.0)
	o.ScaleAutoReset = true
	o.ScaleInitPosition = i32(10)
	o.ScaleInitFillQty = i32(2)
	o.AlgoStrategy = "Vwap"
	o.AlgoParams = []TagValue{{Tag: "maxPctVol", Value: "0.2"}, {Tag: "noTakeLiq", Value: "1"}}

	fields := encodeOpenOrderRecord(v200, o)
	decoded, err := decodeOpenOrder(v200, fields)
	if err != nil {
		t.Fatalf("decodeOpenOrder: %v", err)
	}
	if diff := cmp.Diff(o, decoded); diff != "" {
		t.Fatalf("scale/algo round trip mismatch (-want +got):\n%s", diff)
	}

	// Shallow scale: a zero increment must not read the deep block.
	o2 := sampleOpenOrderV200()
	o2.ScaleInitLevelSize = i32(5)
	shallow := encodeOpenOrderRecord(v200, o2)
	if len(shallow) >= len(fields) {
		t.Fatal("shallow scale frame should be shorter than the deep one")
	}
}

// TestOpenOrderConditionsBlock covers obligation (i) end to end inside
// a full order frame, including the trailing ignore-RTH/cancel pair
// that only exists for a non-empty list.
func TestOpenOrderConditionsBlock(t *testing.T) {
	const v200 = 200
	o := sampleOpenOrderV200()
	o.Conditions = []OrderCondition{
		PriceCondition{ContractID: 265598, Exchange: "SMART", IsMore: true, Price: 200, TriggerMethod: 2, Conjunction: true},
		TimeCondition{IsMore: true, Time: "20260301 09:30:00", Conjunction: false},
	}
	o.ConditionsIgnoreRth = true
	o.ConditionsCancelOrder = true

	fields := encodeOpenOrderRecord(v200, o)
	decoded, err := decodeOpenOrder(v200, fields)
	if err != nil {
		t.Fatalf("decodeOpenOrder: %v", err)
	}
	if diff := cmp.Diff(o, decoded); diff != "" {
		t.Fatalf("conditions round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestOpenOrderWhatIfPreview covers obligation (h): the what-if margin
// and commission block with the full-order-preview extension and its
// nested count-prefixed allocations list.
func TestOpenOrderWhatIfPreview(t *testing.T) {
	const v200 = 200
	o := sampleOpenOrderV200()
	o.WhatIf = true
	o.OrderStatus = "PreSubmitted"
	o.WhatIfInfo = WhatIfInfo{
		InitMarginBefore:     f64(10000),
		MaintMarginBefore:    f64(8000),
		EquityWithLoanBefore: f64(50000),
		InitMarginChange:     f64(1850),
		MaintMarginChange:    f64(1480),
		EquityWithLoanChange: f64(0),
		InitMarginAfter:      f64(11850),
		MaintMarginAfter:     f64(9480),
		EquityWithLoanAfter:  f64(50000),
		Commission:           f64(1.25),
		CommissionCurrency:   "USD",
		MarginCurrency:       "USD",
		SuggestedSize:        f64(50),
		OrderAllocations: []OrderAllocation{
			{Account: "DU1236109", Position: f64(0), PositionDesired: f64(100), PositionAfter: f64(100), DesiredAllocQty: f64(100), AllowedAllocQty: f64(100)},
		},
		WarningText: "",
	}

	fields := encodeOpenOrderRecord(v200, o)
	decoded, err := decodeOpenOrder(v200, fields)
	if err != nil {
		t.Fatalf("decodeOpenOrder: %v", err)
	}
	if diff := cmp.Diff(o, decoded); diff != "" {
		t.Fatalf("what-if round trip mismatch (-want +got):\n%s", diff)
	}
}

// TestCompletedOrderRoundTripFixedVersion pins invariant 1 for the
// completed-order pair at a modern version, including the trailer
// fields the captures exercise at v173.
func TestCompletedOrderRoundTripFixedVersion(t *testing.T) {
	const v200 = 200
	o := Order{
		Contract: Contract{
			ContractID:   265598,
			Symbol:       "AAPL",
			SecurityType: "STK",
			Exchange:     "SMART",
			Currency:     "USD",
			LocalSymbol:  "AAPL",
			TradingClass: "NMS",
		},
		PermID:               1295810623,
		Action:               "BUY",
		TotalQuantity:        1,
		OrderType:            "LMT",
		LimitPrice:           f64(100),
		AuxPrice:             f64(0),
		TIF:                  "DAY",
		Account:              "DU1236109",
		ClearingIntent:       "IB",
		OCAType:              3,
		DeltaNeutralOrderType: "None",
		TrailStopPrice:       f64(101),
		CashQty:              f64(0),
		DontUseAutoPriceForHedge: true,
		FilledQuantity:       1,
		Shareholder:          "Not an insider or substantial shareholder",
		OrderStatus:          "Cancelled",
		CompletedTime:        "20250924 01:21:07 America/New_York",
		CompletedStatus:      "Cancelled by Trader",
		CustomerAccount:      "CUST001",
		ProfessionalCustomer: true,
		Submitter:            "SUB001",
	}

	fields := encodeCompletedOrderRecord(v200, o)
	decoded, err := decodeCompletedOrder(v200, fields)
	if err != nil {
		t.Fatalf("decodeCompletedOrder: %v", err)
	}
	if diff := cmp.Diff(o, decoded); diff != "" {
		t.Fatalf("completed order round trip mismatch (-want +got):\n%s", diff)
	}

	reencoded := encodeCompletedOrderRecord(v200, decoded)
	if diff := cmp.Diff(fields, reencoded); diff != "" {
		t.Fatalf("re-encode mismatch (-want +got):\n%s", diff)
	}
}
