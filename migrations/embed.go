// Package migrations встраивает SQL-миграции в бинарный файл.
package migrations

import "embed"

// KVDir - каталог миграций таблицы гостевого хранилища ключ-значение.
const KVDir = "kv"

// KV содержит миграции таблицы guest_kv.
//
//go:embed kv/*.sql
var KV embed.FS
