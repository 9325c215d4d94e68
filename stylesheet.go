package inanna

import (
	"fmt"
	"strings"
)

// fontSetup carries the resolved families and concrete weights the slide
// CSS uses. FaceCSS holds @font-face declarations and is only populated for
// export, where fonts must load from the local cache.
type fontSetup struct {
	TitleFamily string
	TextFamily  string

	TitleRegular int
	TitleBold    int
	TextRegular  int
	TextBold     int

	FaceCSS string
}

// defaultFontSetup derives a fontSetup from a resolved style with the
// nominal 400/700 weights, for targets that load fonts from the network.
func defaultFontSetup(style Style) fontSetup {
	return fontSetup{
		TitleFamily:  PrimaryFont(style.FontTitle, "Gabarito"),
		TextFamily:   PrimaryFont(style.FontText, "Noto Sans"),
		TitleRegular: 400,
		TitleBold:    700,
		TextRegular:  400,
		TextBold:     700,
	}
}

// resolvedFontSetup derives a fontSetup from cached font assets, recording
// the weights that actually resolved (700 may have landed on 600 or 500).
func resolvedFontSetup(style Style, title, text FontAssets, faceCSS string) fontSetup {
	return fontSetup{
		TitleFamily:  PrimaryFont(style.FontTitle, "Gabarito"),
		TextFamily:   PrimaryFont(style.FontText, "Noto Sans"),
		TitleRegular: title.WeightOr(400, 400),
		TitleBold:    title.WeightOr(700, 700),
		TextRegular:  text.WeightOr(400, 400),
		TextBold:     text.WeightOr(700, 700),
		FaceCSS:      faceCSS,
	}
}

// buildSlideCSS emits the slide rules shared by every render target. The
// units formatter is the only thing that differs between export (mm) and
// preview/thumbnail (px); font sizes are always points. The rule set must
// stay in lockstep with the layout engine's markup vocabulary.
func buildSlideCSS(style Style, fonts fontSetup, units unitFormatter) string {
	titleFont := escapeCSSQuotes(fonts.TitleFamily)
	textFont := escapeCSSQuotes(fonts.TextFamily)

	rules := []string{
		fmt.Sprintf(`.slide-page { width: %s; height: %s; padding: %s %s %s %s; box-sizing: border-box; background-color: %s; color: %s; font-family: "%s", sans-serif; font-weight: %d; overflow: visible; }`,
			units(PageWidthMm), units(PageHeightMm),
			units(PagePaddingTopMm), units(PagePaddingRightMm), units(PagePaddingBottomMm), units(PagePaddingLeftMm),
			style.ColorBg, style.ColorText, textFont, fonts.TextRegular),
		fmt.Sprintf(`.slide-table { width: calc(100%% + %s); height: calc(100%% + %s); margin: 0 -%s -%s 0; border-collapse: collapse; table-layout: fixed; transform: translateX(%s); }`,
			units(OverscanRightMm), units(OverscanBottomMm), units(OverscanRightMm), units(OverscanBottomMm), units(OverscanShiftMm)),
		`.slide-cell { padding: 0; vertical-align: middle; }`,
		fmt.Sprintf(`.slide-content { margin: 0; height: 100%%; padding: 0 %s 0 %s; display: table; width: 100%%; }`,
			units(ContentPaddingRightMm), units(ContentPaddingLeftMm)),
		`.slide-content-inner { display: table-cell; vertical-align: middle; height: 100%; }`,
		`.slide-content > * { page-break-inside: avoid; break-inside: avoid; margin: 0.35em 0; }`,
		`.slide-content > *:first-child { margin-top: 0; }`,
		`.slide-content > *:last-child { margin-bottom: 0; }`,
		`.slide-content.centered { text-align: center; }`,
		`.slide-content ul, .slide-content ol { margin: 0.35em 0; padding-left: 0; list-style: none; text-align: left; width: 100%; }`,
		fmt.Sprintf(`.slide-content li { position: relative; padding-left: 1.3em; font-size: %spt; }`, formatFloat(ParagraphFontPt)),
		fmt.Sprintf(`.slide-content ul li::before { content: "\2022"; position: absolute; left: 0; top: 0.1em; font-family: "%s", sans-serif; color: %s; font-weight: %d; }`,
			titleFont, style.ColorHighlight, fonts.TitleBold),
		`.slide-content ol { counter-reset: ordered; }`,
		`.slide-content ol li { counter-increment: ordered; }`,
		fmt.Sprintf(`.slide-content ol li::before { content: counter(ordered) "."; position: absolute; left: 0; top: 0.05em; font-family: "%s", sans-serif; color: %s; font-weight: %d; }`,
			titleFont, style.ColorHighlight, fonts.TitleBold),
		fmt.Sprintf(`.slide-media { width: 100%%; height: 100%%; border-radius: 18px; overflow: hidden; background-color: %s; background-size: cover; background-position: center; background-repeat: no-repeat; }`,
			style.ColorBox),
		fmt.Sprintf(`.slide-media.placeholder { border: 2px dashed #d0d0d0; color: #777; font-size: %spt; text-align: center; padding: %s; }`,
			formatFloat(PlaceholderFontPt), units(6*ScaleFactor)),
		`.slide-media.placeholder span { display: block; }`,
		`.slide-media.has-image { color: transparent; }`,
		`.slide-square-cell { display: flex; align-items: center; justify-content: center; height: 100%; width: 100%; }`,
		fmt.Sprintf(`.slide-media.square { width: %s; height: %s; max-width: 100%%; border-radius: 18px; margin-left: auto; }`,
			units(SquareMediaSideMm), units(SquareMediaSideMm)),
		`.slide-media.square.placeholder { display: flex; align-items: center; justify-content: center; }`,
		`.slide-page.layout-fullscreen { padding: 0; }`,
		`.slide-page.layout-fullscreen .slide-table { height: 100%; }`,
		`.slide-page.layout-fullscreen .slide-cell { padding: 0; }`,
		`.slide-media.fullscreen { border-radius: 0; }`,
		fmt.Sprintf(`.slide-page h1, .slide-page h2, .slide-page h3, .slide-page h4, .slide-page h5, .slide-page h6 { font-family: "%s", sans-serif; font-weight: %d; margin: 0; line-height: 1.15; page-break-before: avoid; break-before: avoid; page-break-after: avoid; break-after: avoid; }`,
			titleFont, fonts.TitleBold),
		fmt.Sprintf(`.slide-page h1 { color: %s; margin-bottom: 0.2em; font-size: %spt; }`, style.ColorH1, formatFloat(H1FontPt)),
		fmt.Sprintf(`.slide-page h2 { color: %s; font-size: %spt; }`, style.ColorH2, formatFloat(H2FontPt)),
		fmt.Sprintf(`.slide-page h3 { color: %s; font-size: %spt; }`, style.ColorH3, formatFloat(H3FontPt)),
		fmt.Sprintf(`.slide-page p { margin: 0.35em 0; font-weight: %d; font-size: %spt; }`, fonts.TextRegular, formatFloat(ParagraphFontPt)),
		fmt.Sprintf(`.slide-page a { color: %s; text-decoration: none; }`, style.ColorHighlight),
		fmt.Sprintf(`.slide-page strong, .slide-page b { color: %s; font-weight: %d; }`, style.ColorHighlight, fonts.TextBold),
		fmt.Sprintf(`.slide-page blockquote { background-color: %s; padding: 1em; border-left: 5px solid %s; margin: 0.8em 0; text-align: left; font-size: %spt; }`,
			style.ColorBox, style.ColorHighlight, formatFloat(ParagraphFontPt)),
	}

	return strings.Join(rules, "")
}
