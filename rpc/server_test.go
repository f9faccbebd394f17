package rpc

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"osmobridge/chain"
	"osmobridge/contracts/denom"
	"osmobridge/contracts/liquidity"
	"osmobridge/crypto"
)

const (
	owner     = "osmo1owner"
	poolDenom = "uusdc"
)

func newTestServer(t *testing.T) (*httptest.Server, *chain.App, Contracts) {
	t.Helper()
	app := chain.NewApp(1000)
	lm, err := app.Instantiate(liquidity.New(), owner, liquidity.InstantiateMsg{
		Denom:           poolDenom,
		LpDenom:         "ulp",
		UnbondingPeriod: 20,
	}, nil, "liquidity-manager")
	require.NoError(t, err)
	dm, err := app.Instantiate(denom.New(), owner, denom.InstantiateMsg{}, nil, "denom-manager")
	require.NoError(t, err)

	contracts := Contracts{LiquidityManager: lm, DenomManager: dm}
	srv := httptest.NewServer(NewServer(app, contracts, nil).Router())
	t.Cleanup(srv.Close)
	return srv, app, contracts
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	assert.Equal(t, http.StatusOK, getJSON(t, srv.URL+"/healthz", nil))
}

func TestLiquidityConfig(t *testing.T) {
	srv, _, contracts := newTestServer(t)

	var cfg liquidity.ConfigResponse
	status := getJSON(t, srv.URL+"/v1/liquidity/config", &cfg)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, owner, cfg.Owner)
	assert.Equal(t, poolDenom, cfg.Denom)
	assert.Equal(t, "factory/"+contracts.LiquidityManager+"/ulp", cfg.LpDenom)
}

func TestPauseInfo(t *testing.T) {
	srv, app, contracts := newTestServer(t)

	var pause liquidity.PauseInfoResponse
	status := getJSON(t, srv.URL+"/v1/liquidity/pause", &pause)
	assert.Equal(t, http.StatusOK, status)
	assert.False(t, pause.Paused)

	_, err := app.Execute(owner, contracts.LiquidityManager, liquidity.ExecuteMsg{
		Pause: &liquidity.PauseMsg{ExpiresAt: app.BlockTime() + 100},
	}, nil)
	require.NoError(t, err)

	status = getJSON(t, srv.URL+"/v1/liquidity/pause", &pause)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, pause.Paused)
}

func TestBalances(t *testing.T) {
	srv, app, contracts := newTestServer(t)
	depositor := crypto.NewContractAddress("depositor", 9)
	require.NoError(t, app.FundAccount(owner, chain.NewCoin(poolDenom, 700)))
	_, err := app.Execute(owner, contracts.LiquidityManager, liquidity.ExecuteMsg{
		Deposit: &liquidity.DepositMsg{Depositor: depositor},
	}, []chain.Coin{chain.NewCoin(poolDenom, 700)})
	require.NoError(t, err)

	var balance liquidity.GetBalanceResponse
	status := getJSON(t, srv.URL+"/v1/liquidity/balances/"+depositor, &balance)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, []liquidity.WireCoin{{Denom: poolDenom, Amount: "700"}}, balance.Assets)

	// Unknown depositors read as empty, not as an error.
	status = getJSON(t, srv.URL+"/v1/liquidity/balances/osmo1nobody", &balance)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, balance.Assets)
}

func TestBondNotFound(t *testing.T) {
	srv, _, _ := newTestServer(t)
	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/v1/liquidity/bonds/osmo1nobody", nil))
}

func TestUnbondRoutes(t *testing.T) {
	srv, _, _ := newTestServer(t)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/v1/liquidity/unbond/123", nil))
	assert.Equal(t, http.StatusBadRequest, getJSON(t, srv.URL+"/v1/liquidity/unbond/abc", nil))

	var unbonds liquidity.GetUnbondsByOwnerResponse
	status := getJSON(t, srv.URL+"/v1/liquidity/unbonds/osmo1nobody", &unbonds)
	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, unbonds.Unbonds)
}

func TestConvert(t *testing.T) {
	srv, app, contracts := newTestServer(t)
	_, err := app.Execute(owner, contracts.DenomManager, denom.ExecuteMsg{
		AddAlias: &denom.AddAliasMsg{Token: "polygon.usdc", Denom: poolDenom},
	}, nil)
	require.NoError(t, err)

	var resp denom.ConvertResponse
	status := getJSON(t, srv.URL+"/v1/denoms/polygon.usdc", &resp)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, poolDenom, resp.Alias)

	assert.Equal(t, http.StatusNotFound, getJSON(t, srv.URL+"/v1/denoms/unknown", nil))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _, _ := newTestServer(t)
	getJSON(t, srv.URL+"/healthz", nil)

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
