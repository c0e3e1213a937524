package cfgloader

import (
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/rise-and-shine/eventhub/mask"
)

func printConfig(cfg any) {
	out, err := yaml.Marshal(mask.StructToOrdMap(cfg))
	if err != nil {
		slog.Warn("[cfgloader]: cannot print config", "error", err.Error())
		return
	}
	slog.Info("[cfgloader]: loaded config\n" + string(out))
}
