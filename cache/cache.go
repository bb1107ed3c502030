package cache

import "github.com/zlnvch/reviewclient/models"

// Store is the process-wide normalized cache. The application root builds one
// and hands it to the mutation engine (the only writer) and to the selectors.
type Store struct {
	Topics         *ListStore[models.Topic]
	Comments       *ListStore[models.Comment]
	Replies        *ListStore[models.Reply]
	Favorites      *ListStore[models.Favorite]
	Likes          *EntryStore
	FavoriteStates *EntryStore
	Markers        *Markers
	Mutations      *MutationStatus
}

func NewStore() *Store {
	return &Store{
		Topics:         NewListStore[models.Topic](),
		Comments:       NewListStore[models.Comment](),
		Replies:        NewListStore[models.Reply](),
		Favorites:      NewListStore[models.Favorite](),
		Likes:          NewEntryStore(),
		FavoriteStates: NewEntryStore(),
		Markers:        NewMarkers(),
		Mutations:      NewMutationStatus(),
	}
}
