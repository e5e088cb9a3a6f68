package database

// Choosing a backend
//
// All backends implement Store and are interchangeable behind Transact:
//
//	store := database.NewMemoryStore()             // tests, single process
//	store, err := database.OpenSQLite("quest.db")  // embedded, multi-process on one host
//	store, err := database.OpenRedis(ctx, database.RedisConfig{Addr: "localhost:6379"})
//
//	sdb := database.NewSurrealDB(cfg)
//	_ = sdb.Connect(ctx)
//	store := database.NewSurrealStore(sdb)
//
// Running a transaction
//
//	err := database.Transact(ctx, store, database.DefaultTxOptions(),
//	    []database.Key{database.ProfileKey(userID)},
//	    func(tx *database.Tx) error {
//	        doc, _ := tx.Get(database.ProfileKey(userID))
//	        // decode doc.Data, mutate, encode
//	        return tx.Put(doc.Key, encoded)
//	    })
//
// The function may run several times; it must not have side effects beyond
// staging writes on tx.
