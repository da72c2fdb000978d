package history

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

// LegacyTimeLayout is the "dd/mm/yyyy HH:MM" date format of
// historico_gorjetas.json files.
const LegacyTimeLayout = "02/01/2006 15:04"

type legacyRecord struct {
	Data              string  `mapstructure:"data"`
	QualidadeRefeicao float64 `mapstructure:"qualidade_refeicao"`
	QualidadeServico  float64 `mapstructure:"qualidade_servico"`
	TempoAtendimento  float64 `mapstructure:"tempo_atendimento"`
	ValorConta        float64 `mapstructure:"valor_conta"`
	Porcentagem       float64 `mapstructure:"porcentagem_gorjeta"`
	ValorGorjeta      float64 `mapstructure:"valor_gorjeta"`
}

// DecodeLegacy converts a historico_gorjetas.json document into records.
// Numbers stored as strings are accepted; timestamps are read in loc.
func DecodeLegacy(data []byte, loc *time.Location) ([]Record, error) {
	if loc == nil {
		loc = time.Local
	}

	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing legacy history: %w", err)
	}

	records := make([]Record, 0, len(raw))
	for i, entry := range raw {
		var v legacyRecord
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			WeaklyTypedInput: true,
			ErrorUnused:      true,
			Result:           &v,
		})
		if err != nil {
			return nil, err
		}
		if err := dec.Decode(entry); err != nil {
			return nil, fmt.Errorf("legacy entry %d: %w", i, err)
		}

		ts, err := time.ParseInLocation(LegacyTimeLayout, v.Data, loc)
		if err != nil {
			return nil, fmt.Errorf("legacy entry %d: bad date %q: %w", i, v.Data, err)
		}

		records = append(records, Record{
			Timestamp:      ts,
			MealQuality:    v.QualidadeRefeicao,
			ServiceQuality: v.QualidadeServico,
			ServiceTime:    v.TempoAtendimento,
			Bill:           v.ValorConta,
			Percent:        v.Porcentagem,
			Amount:         v.ValorGorjeta,
		})
	}
	return records, nil
}
