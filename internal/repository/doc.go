// Package repository maps domain models onto versioned documents.
//
// Each repository offers two kinds of access:
//
//   - Get reads the latest committed document straight from the store,
//     for read paths that need no consistency with other documents.
//   - Load and Stage work on a database.Tx, so a service can read several
//     documents, mutate the models and stage all writes as one unit.
//
// Documents are JSON encoded. A missing document decodes to nil.
//
// # Example Usage
//
//	profiles := repository.NewProfileRepository(store)
//	err := database.Transact(ctx, store, opts, []database.Key{database.ProfileKey(id)},
//	    func(tx *database.Tx) error {
//	        p, err := profiles.Load(tx, id)
//	        if err != nil || p == nil {
//	            return err
//	        }
//	        p.SkillPoints++
//	        return profiles.Stage(tx, p)
//	    })
package repository
