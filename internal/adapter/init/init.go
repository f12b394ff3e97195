// Package init registers every exchange adapter with the adapter registry
// as a side effect of being imported.
package init

import (
	_ "github.com/BullionBear/sequex/internal/adapter/depth"
	_ "github.com/BullionBear/sequex/internal/adapter/trade"
)
