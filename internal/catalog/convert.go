package catalog

import "github.com/zmb3/spotify/v2"

func convertImages(images []spotify.Image) []Image {
	if len(images) == 0 {
		return nil
	}
	out := make([]Image, len(images))
	for i, img := range images {
		out[i] = Image{
			URL:    img.URL,
			Width:  int(img.Width),
			Height: int(img.Height),
		}
	}
	return out
}

func convertArtist(a spotify.FullArtist) Artist {
	return Artist{
		ID:         string(a.ID),
		Name:       a.Name,
		Images:     convertImages(a.Images),
		Genres:     a.Genres,
		Popularity: int(a.Popularity),
		URL:        a.ExternalURLs["spotify"],
	}
}

// convertAlbum prefers album_group, which describes the release relative
// to the requested artist (appears_on), over album_type.
func convertAlbum(a spotify.SimpleAlbum) Album {
	group := a.AlbumGroup
	if group == "" {
		group = a.AlbumType
	}
	return Album{
		ID:          string(a.ID),
		Name:        a.Name,
		Images:      convertImages(a.Images),
		ReleaseDate: a.ReleaseDate,
		Group:       group,
		URL:         a.ExternalURLs["spotify"],
	}
}

func convertTrack(t spotify.FullTrack) Track {
	artists := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		artists = append(artists, a.Name)
	}
	return Track{
		ID:      string(t.ID),
		Name:    t.Name,
		Artists: artists,
		Album:   convertAlbum(t.Album),
		URL:     t.ExternalURLs["spotify"],
	}
}
