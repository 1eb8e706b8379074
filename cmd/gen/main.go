package main

import (
	"gorm.io/gen"

	"biopass/internal/infra/persistence/model"
)

func main() {
	models := []any{
		model.UserModel{},
		model.BiometricKeyModel{},
	}

	gen := gen.NewGenerator(gen.Config{
		OutPath: "./internal/infra/persistence/postgres/query",
	})

	gen.ApplyBasic(models...)

	gen.Execute()
}
