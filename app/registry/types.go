package registry

// Feed is one RSS/Atom endpoint belonging to a Source.
type Feed struct {
	ID          string `yaml:"id" json:"id"`
	URL         string `yaml:"url" json:"url"`
	Description string `yaml:"description" json:"description"`
}

// Source is a publisher owning one or more feeds. Feed order is the
// declaration order; the feed named "frettir" (or the first declared one)
// is the source's primary feed.
type Source struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	URL   string `yaml:"url" json:"url"`
	Feeds []Feed `yaml:"feeds" json:"feeds"`
}

// FeedRef identifies one feed of one source, as used by category lists.
type FeedRef struct {
	Source string `yaml:"source" json:"source"`
	Feed   string `yaml:"feed" json:"feed"`
}

// PrimaryFeedID is the conventional id of a source's main feed.
const PrimaryFeedID = "frettir"

func (s *Source) feed(id string) *Feed {
	for i := range s.Feeds {
		if s.Feeds[i].ID == id {
			return &s.Feeds[i]
		}
	}
	return nil
}

// PrimaryFeed returns the source's main feed: the one named "frettir" if
// declared, otherwise the first declared feed.
func (s *Source) PrimaryFeed() *Feed {
	if f := s.feed(PrimaryFeedID); f != nil {
		return f
	}
	if len(s.Feeds) > 0 {
		return &s.Feeds[0]
	}
	return nil
}

// FeedIDs returns the feed ids in declaration order.
func (s *Source) FeedIDs() []string {
	ids := make([]string, 0, len(s.Feeds))
	for _, f := range s.Feeds {
		ids = append(ids, f.ID)
	}
	return ids
}
