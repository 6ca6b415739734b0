package action

import "fmt"

// Result represents an action result code.
type Result int

// Result codes, organized by category: pes (success), pec (rejected
// against current state), pem (malformed). The numeric values and the
// strings below are stable; replay logs and history rows store them.
const (
	// pesSUCCESS (0)
	PesSUCCESS Result = 0

	// pec codes (100-199): well-formed actions rejected by ledger state.
	PecPOOL_NOT_FOUND       Result = 100
	PecPOOL_EXISTS          Result = 101
	PecTOKEN_NOT_FOUND      Result = 102
	PecUNFUNDED             Result = 103
	PecINSUFFICIENT_RESERVE Result = 104
	PecCONSTANT_PRODUCT     Result = 105
	PecSLIPPAGE             Result = 106
	PecPRICE_DEVIATION      Result = 107
	PecNO_POSITION          Result = 108
	PecZERO_PAYOUT          Result = 109
	PecTRANSFER_FAILED      Result = 110
	PecPRECISION            Result = 111
	PecSYMBOL_MISMATCH      Result = 112
	PecPOOL_EMPTY           Result = 113
	PecINTERNAL             Result = 144

	// pem codes (-299 to -200): malformed actions, never applied.
	PemMALFORMED      Result = -299
	PemBAD_PAIR       Result = -298
	PemBAD_AMOUNT     Result = -297
	PemBAD_TRADE_TYPE Result = -296
	PemBAD_SHARES_OUT Result = -295
	PemBAD_SLIPPAGE   Result = -294
	PemNO_ACCOUNT     Result = -293
	PemUNKNOWN_ACTION Result = -292
)

// String returns the stable string representation of the result code.
func (r Result) String() string {
	switch r {
	case PesSUCCESS:
		return "pesSUCCESS"
	case PecPOOL_NOT_FOUND:
		return "pecPOOL_NOT_FOUND"
	case PecPOOL_EXISTS:
		return "pecPOOL_EXISTS"
	case PecTOKEN_NOT_FOUND:
		return "pecTOKEN_NOT_FOUND"
	case PecUNFUNDED:
		return "pecUNFUNDED"
	case PecINSUFFICIENT_RESERVE:
		return "pecINSUFFICIENT_RESERVE"
	case PecCONSTANT_PRODUCT:
		return "pecCONSTANT_PRODUCT"
	case PecSLIPPAGE:
		return "pecSLIPPAGE"
	case PecPRICE_DEVIATION:
		return "pecPRICE_DEVIATION"
	case PecNO_POSITION:
		return "pecNO_POSITION"
	case PecZERO_PAYOUT:
		return "pecZERO_PAYOUT"
	case PecTRANSFER_FAILED:
		return "pecTRANSFER_FAILED"
	case PecPRECISION:
		return "pecPRECISION"
	case PecSYMBOL_MISMATCH:
		return "pecSYMBOL_MISMATCH"
	case PecPOOL_EMPTY:
		return "pecPOOL_EMPTY"
	case PecINTERNAL:
		return "pecINTERNAL"
	case PemMALFORMED:
		return "pemMALFORMED"
	case PemBAD_PAIR:
		return "pemBAD_PAIR"
	case PemBAD_AMOUNT:
		return "pemBAD_AMOUNT"
	case PemBAD_TRADE_TYPE:
		return "pemBAD_TRADE_TYPE"
	case PemBAD_SHARES_OUT:
		return "pemBAD_SHARES_OUT"
	case PemBAD_SLIPPAGE:
		return "pemBAD_SLIPPAGE"
	case PemNO_ACCOUNT:
		return "pemNO_ACCOUNT"
	case PemUNKNOWN_ACTION:
		return "pemUNKNOWN_ACTION"
	default:
		return fmt.Sprintf("Unknown(%d)", r)
	}
}

// IsSuccess returns true if the result indicates success.
func (r Result) IsSuccess() bool {
	return r == PesSUCCESS
}

// IsPec returns true if this is a pec (rejected by state) code.
func (r Result) IsPec() bool {
	return r >= 100 && r < 200
}

// IsPem returns true if this is a pem (malformed) code.
func (r Result) IsPem() bool {
	return r >= -299 && r <= -200
}

// IsApplied returns true if the action changed ledger state. Rejected
// actions leave no trace beyond the history log.
func (r Result) IsApplied() bool {
	return r.IsSuccess()
}

// Message returns a human-readable message for the result.
func (r Result) Message() string {
	switch r {
	case PesSUCCESS:
		return "The action was applied."
	case PecPOOL_NOT_FOUND:
		return "No pool exists for the token pair."
	case PecPOOL_EXISTS:
		return "A pool already exists for the token pair or its reverse."
	case PecTOKEN_NOT_FOUND:
		return "A token in the pair does not exist."
	case PecUNFUNDED:
		return "Insufficient token balance."
	case PecINSUFFICIENT_RESERVE:
		return "Requested amount exceeds pool reserves."
	case PecCONSTANT_PRODUCT:
		return "The constant product invariant would be violated."
	case PecSLIPPAGE:
		return "Price impact exceeds the slippage limit."
	case PecPRICE_DEVIATION:
		return "Pool price deviates too far from the oracle reference."
	case PecNO_POSITION:
		return "The account holds no liquidity position in this pool."
	case PecZERO_PAYOUT:
		return "Token amount rounds to zero at the applicable precision."
	case PecTRANSFER_FAILED:
		return "A token transfer failed."
	case PecPRECISION:
		return "Quantity exceeds token precision."
	case PecSYMBOL_MISMATCH:
		return "Token symbol is not part of the pair."
	case PecPOOL_EMPTY:
		return "The pool has no reserves to trade against."
	case PecINTERNAL:
		return "Internal error while applying the action."
	case PemBAD_PAIR:
		return "Malformed token pair."
	case PemBAD_AMOUNT:
		return "Quantities must be positive decimal text."
	case PemBAD_TRADE_TYPE:
		return "Trade type must be exactInput or exactOutput."
	case PemBAD_SHARES_OUT:
		return "Shares percentage must be in (0, 100] with at most 3 decimal places."
	case PemBAD_SLIPPAGE:
		return "Slippage limit must be a fraction in (0, 1)."
	case PemNO_ACCOUNT:
		return "Account is required."
	case PemUNKNOWN_ACTION:
		return "Unknown action name."
	default:
		return r.String()
	}
}
