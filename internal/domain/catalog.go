package domain

import "strings"

// VideoSources holds the delivery URLs the backend exposes for a video.
type VideoSources struct {
	MP4   string `json:"mp4,omitempty"`
	HLS   string `json:"hls,omitempty"`
	Bunny string `json:"bunny,omitempty"`
}

// Video is one entry of the remote video catalog.
type Video struct {
	ID              string       `json:"_id"`
	Title           string       `json:"title"`
	Level           string       `json:"level,omitempty"`
	Duration        int          `json:"duration,omitempty"`
	Sources         VideoSources `json:"sources"`
	Thumbnail       string       `json:"thumbnail,omitempty"`
	DifficultyScore float64      `json:"difficultyScore,omitempty"`
	HasAccess       bool         `json:"hasAccess"`
	Private         bool         `json:"private"`
	PublishedAt     string       `json:"publishedAt,omitempty"`
	Tags            []string     `json:"tags,omitempty"`
}

// Watchable reports whether the current account may play this video.
func (v Video) Watchable() bool {
	return v.HasAccess || !v.Private
}

// PlayableURL resolves the stream URL to hand to the playback widget.
// Prefers the CDN HLS playlist, then a direct HLS source, then MP4.
// Empty when the video has no usable source.
func (v Video) PlayableURL() string {
	if v.Sources.Bunny != "" {
		return strings.TrimSuffix(v.Sources.Bunny, "/") + "/playlist.m3u8"
	}
	if v.Sources.HLS != "" {
		return v.Sources.HLS
	}
	return v.Sources.MP4
}

// Series is one entry of the remote series catalog.
type Series struct {
	ID               string `json:"_id"`
	Title            string `json:"title"`
	Description      string `json:"description,omitempty"`
	Level            string `json:"level,omitempty"`
	NumberOfEpisodes int    `json:"numberOfEpisodes,omitempty"`
	PublishedAt      string `json:"publishedAt,omitempty"`
}

// User is the subset of the remote user profile this client consumes.
type User struct {
	DailyGoalSeconds int `json:"dailyGoalSeconds"`
}

// DayWatchedTime is the server's record of today's accumulated watch time.
type DayWatchedTime struct {
	GoalReached bool `json:"goalReached"`
	TimeSeconds int  `json:"timeSeconds"`
}
