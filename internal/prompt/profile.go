package prompt

import "github.com/hyperifyio/litenote/internal/source"

// Profile carries the per-kind parts of the prompt.
type Profile struct {
	Kind source.Kind
	// ContentLabel names the material in the source information block.
	ContentLabel string
	TitleLabel   string
	// ShowAuthor adds the author line to the source information block.
	ShowAuthor bool
	Focus      []string
	Intro      string
}

// GetProfile returns the profile for kind; anything but video is an article.
func GetProfile(kind source.Kind) Profile {
	if kind == source.KindVideo {
		return videoProfile()
	}
	return articleProfile()
}

func videoProfile() Profile {
	return Profile{
		Kind:         source.KindVideo,
		ContentLabel: "YouTube Video Transcript",
		TitleLabel:   "Video Title",
		Intro:        "You are summarizing a YouTube video transcript. Focus on:",
		Focus: []string{
			"Main topics and key messages from the video",
			"Important tips, insights, or tutorials mentioned",
			"Sequential flow of information as presented in the video",
		},
	}
}

func articleProfile() Profile {
	return Profile{
		Kind:         source.KindArticle,
		ContentLabel: "Website/Blog Article",
		TitleLabel:   "Title",
		ShowAuthor:   true,
		Intro:        "You are summarizing web content from an article or blog. Focus on:",
		Focus: []string{
			"Main arguments and key points",
			"Supporting evidence and data",
			"Conclusions and recommendations",
		},
	}
}
