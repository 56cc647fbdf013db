package database

import (
	"fmt"
	"log"

	"care_program_backend/internal/config"
	"care_program_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dbCfg := cfg.Database
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.DBName,
		dbCfg.Charset,
		dbCfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.CarePair{},
		&model.ParticipantProgram{},
		&model.DayModule{},
		&model.ContentCompletion{},
		&model.ContentItem{},
		&model.AssessmentDefinition{},
		&model.AssessmentSection{},
		&model.AssessmentQuestion{},
		&model.AssessmentOption{},
		&model.ScoreRange{},
		&model.AssessmentAttempt{},
		&model.WaitTimeConfig{},
		&model.WaitTimeOverride{},
	)
	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := seedDefaults(db, cfg); err != nil {
		return nil, err
	}

	return db, nil
}

// seedDefaults creates the global wait-time row and a minimal active
// questionnaire battery on an empty database so a fresh deployment is usable.
func seedDefaults(db *gorm.DB, cfg *config.Config) error {
	var count int64
	db.Model(&model.WaitTimeConfig{}).Count(&count)
	if count == 0 {
		wt := &model.WaitTimeConfig{
			Day0ToDay1Hours:  cfg.Program.Day0ToDay1Hours,
			BetweenDaysHours: cfg.Program.BetweenDaysHours,
		}
		if err := db.Create(wt).Error; err != nil {
			return err
		}
	}

	db.Model(&model.AssessmentDefinition{}).Count(&count)
	if count == 0 {
		if err := seedDefaultBattery(db); err != nil {
			return err
		}
	}

	return nil
}

func seedDefaultBattery(db *gorm.DB) error {
	def := &model.AssessmentDefinition{
		Name:     "Baseline questionnaire battery",
		Version:  1,
		IsActive: true,
	}
	if err := db.Create(def).Error; err != nil {
		return err
	}

	type axisSeed struct {
		axis      model.AssessmentAxis
		title     string
		questions int
		ranges    []model.ScoreRange
	}

	// option scores 0-4 per question; range bounds follow the instrument
	// conventions (Zarit-style burden, PSS-style stress)
	seeds := []axisSeed{
		{
			axis: model.AxisBurden, title: "Caregiver burden", questions: 22,
			ranges: []model.ScoreRange{
				{Axis: model.AxisBurden, MinScore: 0, MaxScore: 21, Category: string(model.BurdenMild)},
				{Axis: model.AxisBurden, MinScore: 22, MaxScore: 40, Category: string(model.BurdenModerate)},
				{Axis: model.AxisBurden, MinScore: 41, MaxScore: 88, Category: string(model.BurdenSevere)},
			},
		},
		{
			axis: model.AxisStress, title: "Perceived stress", questions: 10,
			ranges: []model.ScoreRange{
				{Axis: model.AxisStress, MinScore: 0, MaxScore: 13, Category: string(model.StressLow)},
				{Axis: model.AxisStress, MinScore: 14, MaxScore: 26, Category: string(model.StressModerate)},
				{Axis: model.AxisStress, MinScore: 27, MaxScore: 40, Category: string(model.StressHigh)},
			},
		},
		{
			axis: model.AxisQualityOfLife, title: "Quality of life", questions: 8,
			ranges: []model.ScoreRange{
				{Axis: model.AxisQualityOfLife, MinScore: 0, MaxScore: 10, Category: string(model.QolLow)},
				{Axis: model.AxisQualityOfLife, MinScore: 11, MaxScore: 21, Category: string(model.QolMedium)},
				{Axis: model.AxisQualityOfLife, MinScore: 22, MaxScore: 32, Category: string(model.QolHigh)},
			},
		},
	}

	for order, seed := range seeds {
		section := &model.AssessmentSection{
			DefinitionID: def.ID,
			Axis:         seed.axis,
			Title:        seed.title,
			Order:        order,
		}
		if err := db.Create(section).Error; err != nil {
			return err
		}
		for q := 0; q < seed.questions; q++ {
			question := &model.AssessmentQuestion{
				SectionID: section.ID,
				Content:   fmt.Sprintf("%s question %d", seed.title, q+1),
				Order:     q,
				Required:  true,
			}
			if err := db.Create(question).Error; err != nil {
				return err
			}
			for o := 0; o <= 4; o++ {
				option := &model.AssessmentOption{
					QuestionID: question.ID,
					Label:      fmt.Sprintf("Option %d", o),
					Score:      o,
					Order:      o,
				}
				if err := db.Create(&option).Error; err != nil {
					return err
				}
			}
		}
		for i := range seed.ranges {
			seed.ranges[i].DefinitionID = def.ID
			if err := db.Create(&seed.ranges[i]).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
