package descriptor

import (
	"github.com/asakaida/troschema/internal/entities"
	"github.com/asakaida/troschema/internal/services/preview"
)

// TroPostName is the document type name of TRO case posts
const TroPostName = "tro_post"

// BuildSchema returns the canonical tro_post declaration.
// Every call returns a fresh value.
func BuildSchema() *entities.DocumentSchema {
	return &entities.DocumentSchema{
		Name:  TroPostName,
		Title: "TRO Post",
		Type:  entities.TypeDocument,
		Fields: []*entities.FieldDescriptor{
			str("caseNumber", "Case Number"),
			str("title", "Title"),
			{Name: "content", Title: "Content", Type: entities.FieldTypeText},
			str("brand", "Brand"),
			{
				Name:        "brandInfo",
				Title:       "Brand Info",
				Type:        entities.FieldTypeText,
				Description: "JSON string of brand information",
			},
			{Name: "lawDate", Title: "Law Date", Type: entities.FieldTypeDate},
			str("lawFrom", "Law From"),
			str("lawFirm", "Law Firm"),
			str("lawType", "Law Type"),
			str("courtInfo", "法院信息"),
			{
				Name:  "relatedCases",
				Title: "相关案件",
				Type:  entities.FieldTypeArray,
				Of:    []*entities.FieldDescriptor{{Type: entities.FieldTypeString}},
			},
			str("goodsCategories", "Goods Categories"),
			{
				Name:        "images",
				Title:       "Images",
				Type:        entities.FieldTypeText,
				Description: "JSON string of images data",
			},
			timelineField("timeline", "Timeline", "timelineEvent", ""),
			timelineField("caseTimeLine", "Case Time Line", "caseTimelineEvent", "案件时间线，来自 Tro61 full_timelines"),
		},
		Preview: &entities.PreviewConfig{
			Select: []entities.SelectEntry{
				{Key: "title", Path: "title"},
				{Key: "subtitle", Path: "caseNumber"},
			},
			Prepare: preview.PrepareDocument,
		},
	}
}

func str(name, title string) *entities.FieldDescriptor {
	return &entities.FieldDescriptor{Name: name, Title: title, Type: entities.FieldTypeString}
}

// timelineField declares an array of dated events. timeline and caseTimeLine
// share this shape but keep independent names.
func timelineField(name, title, memberName, description string) *entities.FieldDescriptor {
	return &entities.FieldDescriptor{
		Name:        name,
		Title:       title,
		Type:        entities.FieldTypeArray,
		Description: description,
		Of: []*entities.FieldDescriptor{
			{
				Name: memberName,
				Type: entities.FieldTypeObject,
				Fields: []*entities.FieldDescriptor{
					{Name: "date", Title: "Date", Type: entities.FieldTypeDate},
					{Name: "description", Title: "Description", Type: entities.FieldTypeText},
				},
				Preview: &entities.PreviewConfig{
					Select: []entities.SelectEntry{
						{Key: "description", Path: "description"},
						{Key: "date", Path: "date"},
					},
					Prepare: preview.PrepareEvent,
				},
			},
		},
	}
}
