package export

import (
	"strconv"
	"strings"
)

// SlideBodyRunes is how much of the summary fits on the single slide.
const SlideBodyRunes = 500

const (
	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"
)

const pmlNamespaces = `xmlns:a="` + nsA + `" xmlns:r="` + nsR + `" xmlns:p="` + nsP + `"`

// SlideBody returns the text placed on the slide: the summary cut to
// SlideBodyRunes runes, with "..." appended when something was cut.
func SlideBody(summary string) string {
	i := 0
	for pos := range summary {
		if i == SlideBodyRunes {
			return summary[:pos] + "..."
		}
		i++
	}
	return summary
}

// renderPPTX writes a one-slide deck titled DocumentHeading.
func renderPPTX(summary, _ string) ([]byte, error) {
	var slide strings.Builder
	slide.WriteString(xmlHeader)
	slide.WriteString(`<p:sld ` + pmlNamespaces + `><p:cSld><p:spTree>`)
	slide.WriteString(emptyGroup)
	slide.WriteString(textShape(2, "Title", 457200, 274638, 8229600, 1143000, 3200, true, []string{DocumentHeading}))
	slide.WriteString(textShape(3, "Content", 457200, 1600200, 8229600, 4525963, 1400, false, strings.Split(SlideBody(summary), "\n")))
	slide.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)

	return writePackage([]part{
		{Name: "[Content_Types].xml", Body: pptxContentTypes},
		{Name: "_rels/.rels", Body: relationships(rel{"rId1", relOfficeDocument, "ppt/presentation.xml"})},
		{Name: "ppt/presentation.xml", Body: pptxPresentation},
		{Name: "ppt/_rels/presentation.xml.rels", Body: relationships(
			rel{"rId1", relSlideMaster, "slideMasters/slideMaster1.xml"},
			rel{"rId2", relSlide, "slides/slide1.xml"},
			rel{"rId3", relTheme, "theme/theme1.xml"},
		)},
		{Name: "ppt/slideMasters/slideMaster1.xml", Body: pptxMaster},
		{Name: "ppt/slideMasters/_rels/slideMaster1.xml.rels", Body: relationships(
			rel{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"},
			rel{"rId2", relTheme, "../theme/theme1.xml"},
		)},
		{Name: "ppt/slideLayouts/slideLayout1.xml", Body: pptxLayout},
		{Name: "ppt/slideLayouts/_rels/slideLayout1.xml.rels", Body: relationships(rel{"rId1", relSlideMaster, "../slideMasters/slideMaster1.xml"})},
		{Name: "ppt/slides/slide1.xml", Body: slide.String()},
		{Name: "ppt/slides/_rels/slide1.xml.rels", Body: relationships(rel{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"})},
		{Name: "ppt/theme/theme1.xml", Body: pptxTheme},
	})
}

func textShape(id int, name string, x, y, cx, cy, size int, bold bool, lines []string) string {
	var b strings.Builder
	b.WriteString(`<p:sp><p:nvSpPr><p:cNvPr id="` + strconv.Itoa(id) + `" name="` + name + `"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`)
	b.WriteString(`<p:spPr><a:xfrm><a:off x="` + strconv.Itoa(x) + `" y="` + strconv.Itoa(y) + `"/><a:ext cx="` + strconv.Itoa(cx) + `" cy="` + strconv.Itoa(cy) + `"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`)
	b.WriteString(`<p:txBody><a:bodyPr wrap="square"><a:normAutofit/></a:bodyPr><a:lstStyle/>`)
	rPr := `<a:rPr lang="en-US" sz="` + strconv.Itoa(size) + `" dirty="0"/>`
	if bold {
		rPr = `<a:rPr lang="en-US" sz="` + strconv.Itoa(size) + `" b="1" dirty="0"/>`
	}
	for _, line := range lines {
		b.WriteString(`<a:p><a:r>` + rPr + `<a:t>` + xmlText(line) + `</a:t></a:r></a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

const emptyGroup = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

const pptxContentTypes = xmlHeader + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
	`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>` +
	`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>` +
	`<Override PartName="/ppt/slides/slide1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>` +
	`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>` +
	`</Types>`

const pptxPresentation = xmlHeader + `<p:presentation ` + pmlNamespaces + ` saveSubsetFonts="1">` +
	`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>` +
	`<p:sldIdLst><p:sldId id="256" r:id="rId2"/></p:sldIdLst>` +
	`<p:sldSz cx="9144000" cy="6858000" type="screen4x3"/>` +
	`<p:notesSz cx="6858000" cy="9144000"/>` +
	`</p:presentation>`

const pptxMaster = xmlHeader + `<p:sldMaster ` + pmlNamespaces + `>` +
	`<p:cSld><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
	`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>` +
	`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>` +
	`</p:sldMaster>`

const pptxLayout = xmlHeader + `<p:sldLayout ` + pmlNamespaces + ` preserve="1">` +
	`<p:cSld name="Blank"><p:spTree>` + emptyGroup + `</p:spTree></p:cSld>` +
	`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>` +
	`</p:sldLayout>`

const solidPh = `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`

const pptxTheme = xmlHeader + `<a:theme xmlns:a="` + nsA + `" name="Office Theme"><a:themeElements>` +
	`<a:clrScheme name="Office">` +
	`<a:dk1><a:sysClr val="windowText" lastClr="000000"/></a:dk1>` +
	`<a:lt1><a:sysClr val="window" lastClr="FFFFFF"/></a:lt1>` +
	`<a:dk2><a:srgbClr val="1F497D"/></a:dk2>` +
	`<a:lt2><a:srgbClr val="EEECE1"/></a:lt2>` +
	`<a:accent1><a:srgbClr val="4F81BD"/></a:accent1>` +
	`<a:accent2><a:srgbClr val="C0504D"/></a:accent2>` +
	`<a:accent3><a:srgbClr val="9BBB59"/></a:accent3>` +
	`<a:accent4><a:srgbClr val="8064A2"/></a:accent4>` +
	`<a:accent5><a:srgbClr val="4BACC6"/></a:accent5>` +
	`<a:accent6><a:srgbClr val="F79646"/></a:accent6>` +
	`<a:hlink><a:srgbClr val="0000FF"/></a:hlink>` +
	`<a:folHlink><a:srgbClr val="800080"/></a:folHlink>` +
	`</a:clrScheme>` +
	`<a:fontScheme name="Office">` +
	`<a:majorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
	`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
	`</a:fontScheme>` +
	`<a:fmtScheme name="Office">` +
	`<a:fillStyleLst>` + solidPh + solidPh + solidPh + `</a:fillStyleLst>` +
	`<a:lnStyleLst>` +
	`<a:ln w="9525">` + solidPh + `</a:ln>` +
	`<a:ln w="25400">` + solidPh + `</a:ln>` +
	`<a:ln w="38100">` + solidPh + `</a:ln>` +
	`</a:lnStyleLst>` +
	`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
	`<a:bgFillStyleLst>` + solidPh + solidPh + solidPh + `</a:bgFillStyleLst>` +
	`</a:fmtScheme>` +
	`</a:themeElements></a:theme>`
