package denom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osmobridge/chain"
	"osmobridge/gov"
)

const (
	owner    = "osmo1owner"
	stranger = "osmo1stranger"
)

func deploy(t *testing.T) (*chain.App, string) {
	t.Helper()
	app := chain.NewApp(1000)
	addr, err := app.Instantiate(New(), owner, InstantiateMsg{}, nil, "denom-manager")
	require.NoError(t, err)
	return app, addr
}

func TestInstantiateSetsOwner(t *testing.T) {
	app, addr := deploy(t)

	var cfg ConfigResponse
	_, err := app.Query(addr, QueryMsg{GetConfig: &GetConfigQuery{}}, &cfg)
	require.NoError(t, err)
	assert.Equal(t, owner, cfg.Owner)
}

func TestAddAliasAndConvert(t *testing.T) {
	app, addr := deploy(t)

	_, err := app.Execute(owner, addr, ExecuteMsg{
		AddAlias: &AddAliasMsg{Token: "wbtc", Denom: "ibc/wbtc"},
	}, nil)
	require.NoError(t, err)

	var resp ConvertResponse
	_, err = app.Query(addr, QueryMsg{Convert: &ConvertQuery{Token: "wbtc"}}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "ibc/wbtc", resp.Alias)

	// Aliases overwrite silently.
	_, err = app.Execute(owner, addr, ExecuteMsg{
		AddAlias: &AddAliasMsg{Token: "wbtc", Denom: "ibc/wbtc2"},
	}, nil)
	require.NoError(t, err)
	_, err = app.Query(addr, QueryMsg{Convert: &ConvertQuery{Token: "wbtc"}}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "ibc/wbtc2", resp.Alias)
}

func TestConvertUnknownToken(t *testing.T) {
	app, addr := deploy(t)

	_, err := app.Query(addr, QueryMsg{Convert: &ConvertQuery{Token: "nope"}}, nil)
	var notFound *DenomNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "nope", notFound.Denom)
}

func TestAddAliasRequiresOwner(t *testing.T) {
	app, addr := deploy(t)

	_, err := app.Execute(stranger, addr, ExecuteMsg{
		AddAlias: &AddAliasMsg{Token: "wbtc", Denom: "ibc/wbtc"},
	}, nil)
	assert.ErrorIs(t, err, gov.ErrUnauthorized)
}

func TestPauseBlocksAddAlias(t *testing.T) {
	app, addr := deploy(t)

	_, err := app.Execute(owner, addr, ExecuteMsg{
		Pause: &PauseMsg{ExpiresAt: app.BlockTime() + 100},
	}, nil)
	require.NoError(t, err)

	_, err = app.Execute(owner, addr, ExecuteMsg{
		AddAlias: &AddAliasMsg{Token: "wbtc", Denom: "ibc/wbtc"},
	}, nil)
	assert.ErrorIs(t, err, gov.ErrPaused)

	// Queries keep working while paused.
	var cfg ConfigResponse
	_, err = app.Query(addr, QueryMsg{GetConfig: &GetConfigQuery{}}, &cfg)
	require.NoError(t, err)

	// Past the expiry the breaker self-heals.
	app.AdvanceTime(101)
	_, err = app.Execute(owner, addr, ExecuteMsg{
		AddAlias: &AddAliasMsg{Token: "wbtc", Denom: "ibc/wbtc"},
	}, nil)
	require.NoError(t, err)
}

func TestChangeOwner(t *testing.T) {
	app, addr := deploy(t)

	// ChangeOwner validates the new owner as bech32, so borrow a derived
	// contract address instead of a bare test label.
	next, err := app.Instantiate(New(), owner, InstantiateMsg{}, nil, "scratch")
	require.NoError(t, err)

	_, err = app.Execute(owner, addr, ExecuteMsg{
		ChangeOwner: &ChangeOwnerMsg{NewOwner: next},
	}, nil)
	require.NoError(t, err)

	_, err = app.Execute(owner, addr, ExecuteMsg{
		AddAlias: &AddAliasMsg{Token: "wbtc", Denom: "ibc/wbtc"},
	}, nil)
	assert.ErrorIs(t, err, gov.ErrUnauthorized)

	_, err = app.Execute(next, addr, ExecuteMsg{
		AddAlias: &AddAliasMsg{Token: "wbtc", Denom: "ibc/wbtc"},
	}, nil)
	require.NoError(t, err)
}

func TestUnknownExecuteMessage(t *testing.T) {
	app, addr := deploy(t)

	_, err := app.Execute(owner, addr, ExecuteMsg{}, nil)
	assert.ErrorIs(t, err, ErrUnknownMessage)
}
