// Package all registers every built-in storage backend. Import it for its
// side effects:
//
//	import _ "energydash/internal/storage/all"
package all

import (
	_ "energydash/internal/storage/mssql"
	_ "energydash/internal/storage/mysql"
	_ "energydash/internal/storage/postgres"
	_ "energydash/internal/storage/sqlite"
)
