package action

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultStrings(t *testing.T) {
	cases := map[Result]string{
		PesSUCCESS:              "pesSUCCESS",
		PecPOOL_NOT_FOUND:       "pecPOOL_NOT_FOUND",
		PecUNFUNDED:             "pecUNFUNDED",
		PecINSUFFICIENT_RESERVE: "pecINSUFFICIENT_RESERVE",
		PecCONSTANT_PRODUCT:     "pecCONSTANT_PRODUCT",
		PecINTERNAL:             "pecINTERNAL",
		PemMALFORMED:            "pemMALFORMED",
		PemBAD_SHARES_OUT:       "pemBAD_SHARES_OUT",
		PemUNKNOWN_ACTION:       "pemUNKNOWN_ACTION",
	}
	for code, want := range cases {
		assert.Equal(t, want, code.String())
	}
	assert.Equal(t, "Unknown(42)", Result(42).String())
}

func TestResultCategories(t *testing.T) {
	assert.True(t, PesSUCCESS.IsSuccess())
	assert.True(t, PesSUCCESS.IsApplied())
	assert.False(t, PesSUCCESS.IsPec())
	assert.False(t, PesSUCCESS.IsPem())

	assert.True(t, PecSLIPPAGE.IsPec())
	assert.False(t, PecSLIPPAGE.IsPem())
	assert.False(t, PecSLIPPAGE.IsApplied())

	assert.True(t, PemBAD_PAIR.IsPem())
	assert.False(t, PemBAD_PAIR.IsPec())
	assert.False(t, PemBAD_PAIR.IsApplied())
}

func TestResultMessages(t *testing.T) {
	// Every named code carries a human readable message.
	codes := []Result{
		PesSUCCESS,
		PecPOOL_NOT_FOUND, PecPOOL_EXISTS, PecTOKEN_NOT_FOUND, PecUNFUNDED,
		PecINSUFFICIENT_RESERVE, PecCONSTANT_PRODUCT, PecSLIPPAGE,
		PecPRICE_DEVIATION, PecNO_POSITION, PecZERO_PAYOUT,
		PecTRANSFER_FAILED, PecPRECISION, PecSYMBOL_MISMATCH,
		PecPOOL_EMPTY, PecINTERNAL,
		PemMALFORMED, PemBAD_PAIR, PemBAD_AMOUNT, PemBAD_TRADE_TYPE,
		PemBAD_SHARES_OUT, PemBAD_SLIPPAGE, PemNO_ACCOUNT, PemUNKNOWN_ACTION,
	}
	for _, code := range codes {
		assert.NotEmpty(t, code.Message(), "message for %s", code)
	}
}

func TestParseValidationError(t *testing.T) {
	cases := []struct {
		msg  string
		want Result
	}{
		{"pemBAD_PAIR: token pair must have two symbols", PemBAD_PAIR},
		{"pemBAD_AMOUNT baseQuantity must be positive", PemBAD_AMOUNT},
		{"pemBAD_SHARES_OUT", PemBAD_SHARES_OUT},
		{"pemBAD_SLIPPAGE: got 2", PemBAD_SLIPPAGE},
		{"pemBAD_PAIRS: looks similar but is not a code", PemMALFORMED},
		{"something else entirely", PemMALFORMED},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, parseValidationError(errors.New(tc.msg)), tc.msg)
	}
}

type stubAction struct {
	Common
}

func (a *stubAction) Name() string { return "stubAction" }

func (a *stubAction) GetCommon() *Common { return &a.Common }

func (a *stubAction) Validate() error { return nil }

func (a *stubAction) Apply(ctx *ApplyContext) Result { return PesSUCCESS }

func TestRegistry(t *testing.T) {
	Register("stubAction", func() Action { return &stubAction{} })

	act, err := NewFromName("stubAction")
	require.NoError(t, err)
	assert.Equal(t, "stubAction", act.Name())

	_, err = NewFromName("noSuchAction")
	require.ErrorIs(t, err, ErrUnknownAction)

	assert.Contains(t, RegisteredNames(), "stubAction")

	assert.PanicsWithValue(t, `action "stubAction" registered twice`, func() {
		Register("stubAction", func() Action { return &stubAction{} })
	})
}

func TestFromJSON(t *testing.T) {
	Register("stubDecode", func() Action { return &stubAction{} })

	act, err := FromJSON([]byte(`{"action":"stubDecode","account":"alice"}`))
	require.NoError(t, err)
	assert.Equal(t, "alice", act.GetCommon().Account)

	_, err = FromJSON([]byte(`{"action":"noSuchAction"}`))
	require.ErrorIs(t, err, ErrUnknownAction)

	_, err = FromJSON([]byte(`not json`))
	require.Error(t, err)
}

func TestApplyContextEvents(t *testing.T) {
	ctx := &ApplyContext{}
	assert.Empty(t, ctx.Events())

	ctx.EmitEvent("swapTokens", map[string]string{"tokenPair": "TOKENA:TOKENB"})
	ctx.EmitEvent("addLiquidity", nil)

	events := ctx.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "swapTokens", events[0].Name)
	assert.Equal(t, "TOKENA:TOKENB", events[0].Data["tokenPair"])
	assert.Equal(t, "addLiquidity", events[1].Name)
}
