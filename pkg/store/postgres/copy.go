package postgres

import (
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

// patchOption applies only the fields set on a partial update request.
var patchOption = copier.Option{
	IgnoreEmpty: true,
	Converters: []copier.TypeConverter{
		{
			SrcType: &decimal.Decimal{},
			DstType: decimal.Decimal{},
			Fn: func(src interface{}) (interface{}, error) {
				return *src.(*decimal.Decimal), nil
			},
		},
	},
}

// applyPatch copies non-nil fields of an Update*Request onto a schema row.
func applyPatch(row interface{}, patch interface{}) error {
	return copier.CopyWithOption(row, patch, patchOption)
}

// toModel copies a schema row into its API model.
func toModel[T any](row interface{}) (*T, error) {
	m := new(T)
	if err := copier.Copy(m, row); err != nil {
		return nil, err
	}
	return m, nil
}

func toModels[T any, S any](rows []*S) ([]*T, error) {
	result := make([]*T, len(rows))
	for i, row := range rows {
		m, err := toModel[T](row)
		if err != nil {
			return nil, err
		}
		result[i] = m
	}
	return result, nil
}
