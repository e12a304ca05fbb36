package ibapi

// MinServerVersion is the floor this client refuses to operate below;
// Connect fails with ServerVersionUnsupportedError if the negotiated
// version is lower.
const MinServerVersion = 151

// server_version thresholds gating conditional field blocks throughout
// the codec. Each one guards one or more optional field blocks in
// codec_orders.go, codec_orders_encode.go or codec_execution.go (e.g.
// PeggedToBenchmark guards three); implementers must not reorder the
// reads they guard, since the wire is positional rather than tagged.
//
// Values below MinServerVersion..198 were back-derived by replaying a
// captured v173 completed-order frame field-by-field against the
// decoder's read order and checking which conditional blocks had to be
// active (threshold <= 173) or inactive (threshold > 173) for the
// known output (order status, shareholder text, completed time/status,
// sentinel-valued parent perm id) to fall out correctly; 183/184/198
// for CustomerAccount/ProfessionalCustomer/Submitter come directly from
// that capture's own provenance note.
const (
	ModelsSupport               = 101
	PeggedToBenchmark           = 133
	AutoPriceForHedge           = 137
	CashQty                     = 138
	OrderContainer              = 145
	PriceMgmtAlgo               = 151
	Duration                    = 160
	PostToAts                   = 161
	AutoCancelParent            = 163
	SoftDollarTier              = 158
	DPegOrders                  = 164
	PegBestPegMidOffsets        = 168
	WhatIfExtFields             = 170
	FullOrderPreviewFields      = 175
	FaProfileDesupport          = 177
	MarketCapPrice              = 97
	LastLiquidity               = 142
	CustomerAccount             = 183
	ProfessionalCustomer        = 184
	BondAccruedInterest         = 185
	IncludeOvernight            = 186
	CmeTaggingFieldsInOpenOrder = 187
	PendingPriceRevision        = 188
	ImbalanceOnly               = 189
	Submitter                   = 198
)
