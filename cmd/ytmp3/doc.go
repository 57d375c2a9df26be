// Command ytmp3 downloads YouTube audio and converts it to mp3 with ffmpeg.
//
// Given a video it writes one mp3, or one mp3 per chapter with --split.
// Given a playlist it converts every entry, or joins them into one file with
// --concat. Given a local folder it joins the mp3 files inside it into a
// single file next to the folder.
//
// Subcommands inspect chapters, check external dependencies, manage the
// configuration file, and clean up scratch space left by interrupted runs.
package main
