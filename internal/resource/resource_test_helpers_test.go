package resource

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/nexargate/resource-engine/pkg/types"
)

func mustAddr(t *testing.T, hex string) types.Address {
	t.Helper()
	return types.AddressFromCommon(common.HexToAddress(hex))
}
